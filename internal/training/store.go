package training

import "fmt"

// Store is an immutable snapshot of the training log: day -> exercise -> set.
// Days and exercises keep the order in which they were first written; sets are
// always visited by ascending index. The zero value is an empty log.
type Store struct {
	days []*dayLog
}

type dayLog struct {
	name      string
	exercises []*exerciseLog
}

type exerciseLog struct {
	name string
	sets [SetsPerExercise]*SetRecord
}

// Empty reports whether nothing has been logged yet.
func (s Store) Empty() bool {
	return len(s.days) == 0
}

// Days returns the logged day names in store order.
func (s Store) Days() []string {
	days := make([]string, len(s.days))
	for i, d := range s.days {
		days[i] = d.name
	}
	return days
}

// Exercises returns the logged exercises of day in store order.
func (s Store) Exercises(day string) []string {
	d := s.day(day)
	if d == nil {
		return nil
	}
	names := make([]string, len(d.exercises))
	for i, e := range d.exercises {
		names[i] = e.name
	}
	return names
}

// Lookup returns the record at the key and whether it has been written.
func (s Store) Lookup(day, exercise string, set int) (SetRecord, bool) {
	if set < 0 || set >= SetsPerExercise {
		return SetRecord{}, false
	}
	e := s.exercise(day, exercise)
	if e == nil || e.sets[set] == nil {
		return SetRecord{}, false
	}
	return *e.sets[set], true
}

// Record returns the record at the key, or an empty record when nothing was
// entered there.
func (s Store) Record(day, exercise string, set int) SetRecord {
	rec, _ := s.Lookup(day, exercise, set)
	return rec
}

// Logs flattens the store into one ExerciseLog per (day, exercise) pair, in
// store order.
func (s Store) Logs() []ExerciseLog {
	var logs []ExerciseLog
	for _, d := range s.days {
		for _, e := range d.exercises {
			entry := ExerciseLog{Day: d.name, Exercise: e.name}
			for idx, set := range e.sets {
				if set == nil {
					continue
				}
				entry.Sets = append(entry.Sets, LoggedSet{Index: idx, Record: *set})
			}
			logs = append(logs, entry)
		}
	}
	return logs
}

// Update returns a new Store in which only the given field of one set holds
// value. Missing day, exercise, and set keys are created. The receiver is left
// untouched and keeps sharing every branch that did not change.
func (s Store) Update(day, exercise string, set int, field Field, value string) (Store, error) {
	if day == "" || exercise == "" {
		return s, fmt.Errorf("%w: day and exercise are required", ErrInvalidKey)
	}
	if set < 0 || set >= SetsPerExercise {
		return s, fmt.Errorf("%w: set index %d outside 0..%d", ErrInvalidKey, set, SetsPerExercise-1)
	}
	if field != FieldWeight && field != FieldReps {
		return s, fmt.Errorf("%w %q", ErrUnknownField, field)
	}

	days := make([]*dayLog, len(s.days), len(s.days)+1)
	copy(days, s.days)

	di := s.dayIndex(day)
	var d dayLog
	if di < 0 {
		d = dayLog{name: day}
		days = append(days, &d)
	} else {
		d = *s.days[di]
		days[di] = &d
	}

	exercises := make([]*exerciseLog, len(d.exercises), len(d.exercises)+1)
	copy(exercises, d.exercises)

	ei := indexOfExercise(d.exercises, exercise)
	var e exerciseLog
	if ei < 0 {
		e = exerciseLog{name: exercise}
		exercises = append(exercises, &e)
	} else {
		e = *d.exercises[ei]
		exercises[ei] = &e
	}

	var rec SetRecord
	if e.sets[set] != nil {
		rec = *e.sets[set]
	}
	rec = rec.with(field, value)
	e.sets[set] = &rec
	d.exercises = exercises

	return Store{days: days}, nil
}

func (s Store) dayIndex(day string) int {
	for i, d := range s.days {
		if d.name == day {
			return i
		}
	}
	return -1
}

func (s Store) day(day string) *dayLog {
	if i := s.dayIndex(day); i >= 0 {
		return s.days[i]
	}
	return nil
}

func (s Store) exercise(day, exercise string) *exerciseLog {
	d := s.day(day)
	if d == nil {
		return nil
	}
	if i := indexOfExercise(d.exercises, exercise); i >= 0 {
		return d.exercises[i]
	}
	return nil
}

func indexOfExercise(exercises []*exerciseLog, name string) int {
	for i, e := range exercises {
		if e.name == name {
			return i
		}
	}
	return -1
}
