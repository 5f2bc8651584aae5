// Package tracker owns the application state: the current training log
// snapshot and the dark-mode preference. Every accepted change is persisted
// before it becomes visible.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/faizmokh/angkat/internal/files"
	"github.com/faizmokh/angkat/internal/schedule"
	"github.com/faizmokh/angkat/internal/training"
)

// DarkModeSlot is the storage slot holding the preference as "true" or "false".
const DarkModeSlot = "darkMode"

// Options tunes derived output.
type Options struct {
	// LegacyReps reproduces the older chart reps average, see training.Aggregator.
	LegacyReps bool
	// RawCSV disables RFC 4180 quoting in exports unless a call asks for it.
	RawCSV bool
}

// Tracker is the single writer of the training log. Updates and saves are
// serialized, so save N always completes before save N+1 starts.
type Tracker struct {
	mu       sync.RWMutex
	manager  *files.Manager
	repo     *training.Repository
	schedule schedule.Schedule
	opts     Options

	store    training.Store
	darkMode bool
	warning  string
}

// Open loads the persisted log and preference. A corrupt log is moved aside
// and replaced by an empty one; the reason is logged and kept in Warning.
func Open(ctx context.Context, manager *files.Manager, sched schedule.Schedule, opts Options) (*Tracker, error) {
	if manager == nil {
		return nil, errors.New("tracker requires a file manager")
	}

	t := &Tracker{
		manager:  manager,
		repo:     training.NewRepository(manager),
		schedule: sched,
		opts:     opts,
	}

	store, err := t.repo.Load(ctx)
	switch {
	case err == nil:
		t.store = store
	case errors.Is(err, training.ErrStorageCorrupt):
		moved, qerr := t.repo.Quarantine(ctx)
		if qerr != nil {
			return nil, fmt.Errorf("quarantine corrupt log: %w", qerr)
		}
		t.warning = fmt.Sprintf("training log was unreadable and has been reset; the old file is at %s", moved)
		log.WithError(err).WithField("moved_to", moved).Warn("reset corrupt training log")
	default:
		return nil, fmt.Errorf("load training log: %w", err)
	}

	t.darkMode = t.loadDarkMode()

	log.WithFields(log.Fields{
		"home":      manager.BasePath(),
		"days":      len(t.store.Days()),
		"dark_mode": t.darkMode,
	}).Debug("tracker opened")

	return t, nil
}

func (t *Tracker) loadDarkMode() bool {
	data, err := t.manager.ReadSlot(DarkModeSlot)
	if err != nil {
		if !errors.Is(err, files.ErrSlotNotFound) {
			log.WithError(err).Warn("could not read dark mode preference")
		}
		return false
	}
	value, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		log.WithField("value", string(data)).Warn("invalid dark mode preference, using light mode")
		return false
	}
	return value
}

// Warning is a non-fatal message produced while opening, or "".
func (t *Tracker) Warning() string {
	return t.warning
}

// Schedule returns the training week the tracker accepts entries for.
func (t *Tracker) Schedule() schedule.Schedule {
	return t.schedule
}

// Snapshot returns the current log. Stores are immutable, so the snapshot
// stays valid after later updates.
func (t *Tracker) Snapshot() training.Store {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store
}

// Record returns what has been entered for one set, empty if nothing was.
func (t *Tracker) Record(day, exercise string, set int) training.SetRecord {
	return t.Snapshot().Record(day, exercise, set)
}

// Change is one field value to write into a set.
type Change struct {
	Field training.Field
	Value string
}

// Update writes value into one field of one set and persists the whole log.
// Day and exercise must belong to the schedule. When saving fails the
// previous snapshot stays current.
func (t *Tracker) Update(ctx context.Context, day, exercise string, set int, field training.Field, value string) (training.SetRecord, error) {
	return t.Apply(ctx, day, exercise, set, Change{Field: field, Value: value})
}

// Apply writes every change into one set and persists the result with a
// single save, so either all of them are stored or none are.
func (t *Tracker) Apply(ctx context.Context, day, exercise string, set int, changes ...Change) (training.SetRecord, error) {
	if len(changes) == 0 {
		return training.SetRecord{}, errors.New("no fields to update")
	}
	if !t.schedule.HasDay(day) {
		return training.SetRecord{}, fmt.Errorf("%w: unknown day %q", training.ErrInvalidKey, day)
	}
	if !t.schedule.Has(day, exercise) {
		return training.SetRecord{}, fmt.Errorf("%w: %q is not scheduled on %s", training.ErrInvalidKey, exercise, day)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.store
	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		var err error
		if next, err = next.Update(day, exercise, set, c.Field, c.Value); err != nil {
			return training.SetRecord{}, err
		}
		fields = append(fields, string(c.Field))
	}
	if err := t.repo.Save(ctx, next); err != nil {
		return training.SetRecord{}, fmt.Errorf("save training log: %w", err)
	}
	t.store = next

	log.WithFields(log.Fields{
		"day":      day,
		"exercise": exercise,
		"set":      set + 1,
		"fields":   strings.Join(fields, ","),
	}).Debug("set updated")

	return next.Record(day, exercise, set), nil
}

// DarkMode reports the stored display preference.
func (t *Tracker) DarkMode() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.darkMode
}

// SetDarkMode persists the display preference.
func (t *Tracker) SetDarkMode(ctx context.Context, enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setDarkModeLocked(ctx, enabled)
}

// ToggleDarkMode flips and persists the display preference, returning the new value.
func (t *Tracker) ToggleDarkMode(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	enabled := !t.darkMode
	if err := t.setDarkModeLocked(ctx, enabled); err != nil {
		return t.darkMode, err
	}
	return enabled, nil
}

func (t *Tracker) setDarkModeLocked(ctx context.Context, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	if err := t.manager.WriteSlot(DarkModeSlot, []byte(strconv.FormatBool(enabled))); err != nil {
		return fmt.Errorf("save dark mode: %w", err)
	}
	t.darkMode = enabled
	return nil
}

// Chart aggregates the current log. An empty filter includes every exercise.
func (t *Tracker) Chart(filter string) []training.ChartPoint {
	agg := training.Aggregator{LegacyReps: t.opts.LegacyReps}
	return agg.Points(t.Snapshot(), filter)
}

// ExerciseOptions lists the chart filters after "all exercises".
func (t *Tracker) ExerciseOptions() []string {
	return t.schedule.ExerciseOptions()
}

// CSVOptions returns the export options configured for this tracker.
func (t *Tracker) CSVOptions() training.CSVOptions {
	return training.CSVOptions{Raw: t.opts.RawCSV}
}

// WriteCSV exports the current log to w.
func (t *Tracker) WriteCSV(w io.Writer, opts training.CSVOptions) error {
	return training.WriteCSV(w, t.Snapshot(), opts)
}

// ExportFile writes the current log to path atomically and returns the
// absolute path written. Relative paths are resolved against the data directory.
func (t *Tracker) ExportFile(path string, opts training.CSVOptions) (string, error) {
	if path == "" {
		path = training.CSVFilename
	}
	var sb strings.Builder
	if err := t.WriteCSV(&sb, opts); err != nil {
		return "", err
	}
	target := t.manager.Path(path)
	if err := files.WriteFile(target, []byte(sb.String())); err != nil {
		return "", err
	}
	log.WithField("path", target).Info("exported training log")
	return target, nil
}
