// Package schedule holds the fixed weekly training plan that drives every
// input surface of angkat.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// DaysPerWeek is the number of days every schedule must define.
const DaysPerWeek = 7

// ErrInvalidSchedule is returned when a schedule does not describe a full week.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Entry lists the exercises planned for one day, in display order.
type Entry struct {
	Day       string
	Exercises []string
}

// Schedule is an immutable, ordered week of entries.
type Schedule struct {
	entries []Entry
}

// Default returns the built-in training week.
func Default() Schedule {
	s, err := New([]Entry{
		{Day: "Monday", Exercises: []string{"Bench Press", "Dumbbell Shoulder Press", "Triceps Pushdowns"}},
		{Day: "Tuesday", Exercises: []string{"Conventional Deadlift", "Front Squat", "Hamstring Curls"}},
		{Day: "Wednesday", Exercises: []string{"4×800m Intervals @ 6:00/km"}},
		{Day: "Thursday", Exercises: []string{"Pull-Ups", "Barbell Row", "Bicep Curls"}},
		{Day: "Friday", Exercises: []string{"Back Squat", "RDL", "Hip Thrusts"}},
		{Day: "Saturday", Exercises: []string{"Long Run: 10–20km @ 6:45–7:00/km"}},
		{Day: "Sunday", Exercises: []string{"Recovery Run or Mobility"}},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// New copies entries into a Schedule after checking that they form a week:
// seven distinct, non-empty days with at least one named exercise each.
func New(entries []Entry) (Schedule, error) {
	if len(entries) != DaysPerWeek {
		return Schedule{}, fmt.Errorf("%w: want %d days, got %d", ErrInvalidSchedule, DaysPerWeek, len(entries))
	}

	seen := make(map[string]struct{}, len(entries))
	copied := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		day := strings.TrimSpace(entry.Day)
		if day == "" {
			return Schedule{}, fmt.Errorf("%w: day name is empty", ErrInvalidSchedule)
		}
		if _, dup := seen[day]; dup {
			return Schedule{}, fmt.Errorf("%w: duplicate day %q", ErrInvalidSchedule, day)
		}
		seen[day] = struct{}{}

		if len(entry.Exercises) == 0 {
			return Schedule{}, fmt.Errorf("%w: %s has no exercises", ErrInvalidSchedule, day)
		}
		exercises := make([]string, 0, len(entry.Exercises))
		for _, exercise := range entry.Exercises {
			if strings.TrimSpace(exercise) == "" {
				return Schedule{}, fmt.Errorf("%w: %s has an empty exercise name", ErrInvalidSchedule, day)
			}
			exercises = append(exercises, exercise)
		}
		copied = append(copied, Entry{Day: day, Exercises: exercises})
	}

	return Schedule{entries: copied}, nil
}

// Entries returns a copy of the week in order.
func (s Schedule) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, entry := range s.entries {
		out[i] = Entry{Day: entry.Day, Exercises: append([]string(nil), entry.Exercises...)}
	}
	return out
}

// Days returns the day names in order.
func (s Schedule) Days() []string {
	days := make([]string, len(s.entries))
	for i, entry := range s.entries {
		days[i] = entry.Day
	}
	return days
}

// Exercises returns the exercises planned for day, or nil for an unknown day.
func (s Schedule) Exercises(day string) []string {
	for _, entry := range s.entries {
		if entry.Day == day {
			return append([]string(nil), entry.Exercises...)
		}
	}
	return nil
}

// HasDay reports whether day is one of the schedule's days.
func (s Schedule) HasDay(day string) bool {
	for _, entry := range s.entries {
		if entry.Day == day {
			return true
		}
	}
	return false
}

// Has reports whether exercise is planned on day.
func (s Schedule) Has(day, exercise string) bool {
	for _, entry := range s.entries {
		if entry.Day != day {
			continue
		}
		for _, name := range entry.Exercises {
			if name == exercise {
				return true
			}
		}
		return false
	}
	return false
}

// ExerciseOptions lists every exercise of the week once, in first-seen order.
// Chart filters offer these after the "all exercises" choice.
func (s Schedule) ExerciseOptions() []string {
	seen := make(map[string]struct{})
	var options []string
	for _, entry := range s.entries {
		for _, exercise := range entry.Exercises {
			if _, ok := seen[exercise]; ok {
				continue
			}
			seen[exercise] = struct{}{}
			options = append(options, exercise)
		}
	}
	return options
}

// ResolveDay matches input against the schedule's days ignoring case, so CLI
// users can type "monday".
func (s Schedule) ResolveDay(input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, entry := range s.entries {
		if strings.EqualFold(entry.Day, input) {
			return entry.Day, true
		}
	}
	return "", false
}

// ResolveExercise matches input against the exercises of day ignoring case.
func (s Schedule) ResolveExercise(day, input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, exercise := range s.Exercises(day) {
		if strings.EqualFold(exercise, input) {
			return exercise, true
		}
	}
	return "", false
}
