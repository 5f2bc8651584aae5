package tracker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/angkat/internal/files"
	"github.com/faizmokh/angkat/internal/schedule"
	"github.com/faizmokh/angkat/internal/training"
)

func newTestTracker(t *testing.T) (*Tracker, *files.Manager) {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir())
	require.NoError(t, err)
	tr, err := Open(context.Background(), mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	return tr, mgr
}

func TestLogAggregateExportWorkflow(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)
	assert.True(t, tr.Snapshot().Empty())

	_, err := tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldWeight, "80")
	require.NoError(t, err)
	rec, err := tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldReps, "5")
	require.NoError(t, err)
	assert.Equal(t, training.SetRecord{Weight: "80", Reps: "5"}, rec)

	assert.Equal(t, []training.ChartPoint{
		{Label: "Monday - Bench Press", AvgWeight: 80, AvgReps: 5},
	}, tr.Chart(""))

	var sb strings.Builder
	require.NoError(t, tr.WriteCSV(&sb, tr.CSVOptions()))
	assert.Equal(t, "Day,Exercise,Set,Weight,Reps\nMonday,Bench Press,1,80,5\n", sb.String())

	reopened, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.Equal(t, tr.Snapshot().Logs(), reopened.Snapshot().Logs())
}

func TestUpdateRejectsKeysOutsideSchedule(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)

	_, err := tr.Update(ctx, "Someday", "Bench Press", 0, training.FieldWeight, "1")
	assert.ErrorIs(t, err, training.ErrInvalidKey)

	_, err = tr.Update(ctx, "Tuesday", "Bench Press", 0, training.FieldWeight, "1")
	assert.ErrorIs(t, err, training.ErrInvalidKey)

	_, err = tr.Update(ctx, "Monday", "Bench Press", 4, training.FieldWeight, "1")
	assert.ErrorIs(t, err, training.ErrInvalidKey)

	_, err = tr.Update(ctx, "Monday", "Bench Press", 0, training.Field("rpe"), "1")
	assert.ErrorIs(t, err, training.ErrUnknownField)

	assert.True(t, tr.Snapshot().Empty())
	_, err = mgr.ReadSlot(training.LogsSlot)
	assert.ErrorIs(t, err, files.ErrSlotNotFound, "rejected updates must not be persisted")
}

func TestApplyWritesBothFieldsTogether(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)

	rec, err := tr.Apply(ctx, "Monday", "Bench Press", 0,
		Change{Field: training.FieldWeight, Value: "80"},
		Change{Field: training.FieldReps, Value: "5"},
	)
	require.NoError(t, err)
	assert.Equal(t, training.SetRecord{Weight: "80", Reps: "5"}, rec)

	reopened, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.Equal(t, rec, reopened.Record("Monday", "Bench Press", 0))

	_, err = tr.Apply(ctx, "Monday", "Bench Press", 0,
		Change{Field: training.FieldWeight, Value: "90"},
		Change{Field: "tempo", Value: "3-1-1"},
	)
	assert.ErrorIs(t, err, training.ErrUnknownField)
	assert.Equal(t, rec, tr.Record("Monday", "Bench Press", 0))

	_, err = tr.Apply(ctx, "Monday", "Bench Press", 0)
	assert.Error(t, err)
}

func TestCancelledContextWritesNothing(t *testing.T) {
	tr, mgr := newTestTracker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Apply(ctx, "Monday", "Bench Press", 0,
		Change{Field: training.FieldWeight, Value: "80"},
		Change{Field: training.FieldReps, Value: "5"},
	)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, tr.Snapshot().Empty())

	require.ErrorIs(t, tr.SetDarkMode(ctx, true), context.Canceled)
	enabled, err := tr.ToggleDarkMode(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, enabled)
	assert.False(t, tr.DarkMode())

	_, err = mgr.ReadSlot(training.LogsSlot)
	assert.ErrorIs(t, err, files.ErrSlotNotFound)
	_, err = mgr.ReadSlot(DarkModeSlot)
	assert.ErrorIs(t, err, files.ErrSlotNotFound)
}

func TestSnapshotsSurviveLaterUpdates(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	_, err := tr.Update(ctx, "Friday", "RDL", 0, training.FieldWeight, "100")
	require.NoError(t, err)
	before := tr.Snapshot()

	_, err = tr.Update(ctx, "Friday", "RDL", 0, training.FieldWeight, "110")
	require.NoError(t, err)

	assert.Equal(t, "100", before.Record("Friday", "RDL", 0).Weight)
	assert.Equal(t, "110", tr.Record("Friday", "RDL", 0).Weight)
}

func TestConcurrentUpdatesAreAllPersisted(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)

	var wg sync.WaitGroup
	for set := 0; set < training.SetsPerExercise; set++ {
		for _, field := range []training.Field{training.FieldWeight, training.FieldReps} {
			wg.Add(1)
			go func(set int, field training.Field) {
				defer wg.Done()
				_, err := tr.Update(ctx, "Thursday", "Barbell Row", set, field, "7")
				assert.NoError(t, err)
			}(set, field)
		}
	}
	wg.Wait()

	reopened, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	for set := 0; set < training.SetsPerExercise; set++ {
		assert.Equal(t, training.SetRecord{Weight: "7", Reps: "7"}, reopened.Record("Thursday", "Barbell Row", set))
	}
}

func TestOpenResetsCorruptLog(t *testing.T) {
	ctx := context.Background()
	mgr, err := files.NewManager(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, mgr.WriteSlot(training.LogsSlot, []byte(`{"Monday": nope}`)))

	tr, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.True(t, tr.Snapshot().Empty())
	assert.Contains(t, tr.Warning(), "has been reset")

	matches, err := filepath.Glob(mgr.SlotPath(training.LogsSlot) + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, `{"Monday": nope}`, string(data))

	_, err = tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldWeight, "60")
	require.NoError(t, err)
	reopened, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.Empty(t, reopened.Warning())
	assert.Equal(t, "60", reopened.Record("Monday", "Bench Press", 0).Weight)
}

func TestDarkModePreference(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)
	assert.False(t, tr.DarkMode())

	enabled, err := tr.ToggleDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	data, err := mgr.ReadSlot(DarkModeSlot)
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	reopened, err := Open(ctx, mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.True(t, reopened.DarkMode())

	require.NoError(t, reopened.SetDarkMode(ctx, false))
	assert.False(t, reopened.DarkMode())
}

func TestInvalidDarkModeFallsBackToLight(t *testing.T) {
	mgr, err := files.NewManager(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, mgr.WriteSlot(DarkModeSlot, []byte("maybe")))

	tr, err := Open(context.Background(), mgr, schedule.Default(), Options{})
	require.NoError(t, err)
	assert.False(t, tr.DarkMode())
}

func TestChartUsesOptions(t *testing.T) {
	ctx := context.Background()
	mgr, err := files.NewManager(t.TempDir())
	require.NoError(t, err)
	tr, err := Open(ctx, mgr, schedule.Default(), Options{LegacyReps: true, RawCSV: true})
	require.NoError(t, err)

	_, err = tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldWeight, "100")
	require.NoError(t, err)
	_, err = tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldReps, "10")
	require.NoError(t, err)
	_, err = tr.Update(ctx, "Monday", "Bench Press", 1, training.FieldWeight, "x")
	require.NoError(t, err)
	_, err = tr.Update(ctx, "Monday", "Bench Press", 1, training.FieldReps, "5")
	require.NoError(t, err)
	_, err = tr.Update(ctx, "Monday", "Triceps Pushdowns", 0, training.FieldWeight, "20")
	require.NoError(t, err)

	points := tr.Chart("Bench Press")
	require.Len(t, points, 1)
	assert.Equal(t, 15.0, points[0].AvgReps)
	assert.True(t, tr.CSVOptions().Raw)
	assert.Len(t, tr.Chart(""), 2)
}

func TestExportFile(t *testing.T) {
	ctx := context.Background()
	tr, mgr := newTestTracker(t)
	_, err := tr.Update(ctx, "Monday", "Bench Press", 0, training.FieldWeight, "60")
	require.NoError(t, err)

	path, err := tr.ExportFile("", training.CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mgr.BasePath(), training.CSVFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Day,Exercise,Set,Weight,Reps\nMonday,Bench Press,1,60,\n", string(data))

	custom := filepath.Join(t.TempDir(), "out", "week.csv")
	path, err = tr.ExportFile(custom, training.CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, custom, path)
}

func TestOpenRequiresManager(t *testing.T) {
	_, err := Open(context.Background(), nil, schedule.Default(), Options{})
	assert.Error(t, err)
}
