package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
	"github.com/faizmokh/angkat/internal/ui"
)

const chartBarWidth = 24

func newChartCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	var (
		exerciseFlag string
		outputJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print average weight and reps per day and exercise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := resolveFilter(tr, exerciseFlag)
			if err != nil {
				return err
			}

			points := tr.Chart(filter)
			if outputJSON {
				return printChartJSON(cmd, points)
			}
			printChartText(cmd, filter, points)
			return nil
		},
	}

	cmd.Flags().StringVar(&exerciseFlag, "exercise", "", "Only chart this exercise (default: all exercises)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit chart points as JSON")

	return cmd
}

func newExercisesCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List the exercises the chart can be filtered by.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.AllExercises)
			for _, exercise := range tr.ExerciseOptions() {
				fmt.Fprintln(out, exercise)
			}
			return nil
		},
	}
}

// resolveFilter matches input against the chart filters ignoring case. Empty
// input and "All Exercises" both mean no filter.
func resolveFilter(tr *tracker.Tracker, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, ui.AllExercises) {
		return "", nil
	}
	for _, exercise := range tr.ExerciseOptions() {
		if strings.EqualFold(exercise, input) {
			return exercise, nil
		}
	}
	return "", fmt.Errorf("unknown exercise %q (see 'angkat exercises')", input)
}

func printChartText(cmd *cobra.Command, filter string, points []training.ChartPoint) {
	out := cmd.OutOrStdout()
	title := filter
	if title == "" {
		title = ui.AllExercises
	}
	fmt.Fprintf(out, "Average weight: %s\n", title)
	if len(points) == 0 {
		fmt.Fprintln(out, "(no data)")
		return
	}

	labelWidth := 0
	maxWeight := 0.0
	for _, point := range points {
		labelWidth = max(labelWidth, utf8.RuneCountInString(point.Label))
		maxWeight = max(maxWeight, point.AvgWeight)
	}

	for _, point := range points {
		fmt.Fprintf(out, "%-*s  %-*s  weight %s  reps %s\n",
			labelWidth, point.Label,
			chartBarWidth, ui.Bar(point.AvgWeight, maxWeight, chartBarWidth),
			formatNumber(point.AvgWeight), formatNumber(point.AvgReps))
	}
}

func printChartJSON(cmd *cobra.Command, points []training.ChartPoint) error {
	if points == nil {
		points = []training.ChartPoint{}
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(points)
}
