package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/schedule"
	"github.com/faizmokh/angkat/internal/training"
)

func resolveDay(sched schedule.Schedule, input string) (string, error) {
	day, ok := sched.ResolveDay(input)
	if !ok {
		return "", fmt.Errorf("%w: unknown day %q", training.ErrInvalidKey, input)
	}
	return day, nil
}

func resolveExercise(sched schedule.Schedule, day, input string) (string, error) {
	exercise, ok := sched.ResolveExercise(day, input)
	if !ok {
		return "", fmt.Errorf("%w: %q is not scheduled on %s", training.ErrInvalidKey, input, day)
	}
	return exercise, nil
}

// parseSetNumber converts a 1-based set number into a set index.
func parseSetNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 || n > training.SetsPerExercise {
		return 0, fmt.Errorf("set must be between 1 and %d", training.SetsPerExercise)
	}
	return n - 1, nil
}

func formatValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatSet(record training.SetRecord) string {
	if record == (training.SetRecord{}) {
		return "-"
	}
	return fmt.Sprintf("weight %s, reps %s", formatValue(record.Weight), formatValue(record.Reps))
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func printDay(cmd *cobra.Command, store training.Store, sched schedule.Schedule, day string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, day)
	for _, exercise := range sched.Exercises(day) {
		fmt.Fprintf(out, "  %s\n", exercise)
		for set := 0; set < training.SetsPerExercise; set++ {
			fmt.Fprintf(out, "    Set %d: %s\n", set+1, formatSet(store.Record(day, exercise, set)))
		}
	}
}

func printDays(cmd *cobra.Command, store training.Store, sched schedule.Schedule, days []string) {
	for i, day := range days {
		printDay(cmd, store, sched, day)
		if i < len(days)-1 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
}
