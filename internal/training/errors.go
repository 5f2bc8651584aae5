package training

import "errors"

// ErrStorageCorrupt is returned when a persisted log cannot be decoded into a Store.
var ErrStorageCorrupt = errors.New("stored training log is corrupt")

// ErrInvalidKey indicates a day, exercise, or set index that cannot address a log entry.
var ErrInvalidKey = errors.New("invalid log key")

// ErrUnknownField is returned for set fields other than weight and reps.
var ErrUnknownField = errors.New("unknown set field")
