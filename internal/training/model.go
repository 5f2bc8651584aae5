package training

import (
	"fmt"
	"strings"
)

// SetsPerExercise is the fixed number of set slots logged for every exercise.
const SetsPerExercise = 4

// SetRecord holds what was typed for one set. Both fields are free text and
// are only interpreted as numbers when aggregating.
type SetRecord struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// Field names one of the two values of a SetRecord.
type Field string

const (
	// FieldWeight addresses SetRecord.Weight.
	FieldWeight Field = "weight"
	// FieldReps addresses SetRecord.Reps.
	FieldReps Field = "reps"
)

// ParseField accepts "weight" or "reps" in any case.
func ParseField(value string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(value))) {
	case FieldWeight:
		return FieldWeight, nil
	case FieldReps:
		return FieldReps, nil
	default:
		return "", fmt.Errorf("%w %q (expected weight|reps)", ErrUnknownField, value)
	}
}

// Value returns the text stored under field.
func (r SetRecord) Value(field Field) string {
	if field == FieldReps {
		return r.Reps
	}
	return r.Weight
}

func (r SetRecord) with(field Field, value string) SetRecord {
	if field == FieldReps {
		r.Reps = value
	} else {
		r.Weight = value
	}
	return r
}

// LoggedSet is a set slot that has been written at least once.
type LoggedSet struct {
	Index  int
	Record SetRecord
}

// ExerciseLog is the logged sets of one exercise on one day.
type ExerciseLog struct {
	Day      string
	Exercise string
	Sets     []LoggedSet
}
