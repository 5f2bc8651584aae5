package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
)

func newSetCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	var (
		weightFlag string
		repsFlag   string
	)

	cmd := &cobra.Command{
		Use:   "set <day> <exercise> <set>",
		Short: "Record the weight and/or reps of one set.",
		Long: "set writes the weight and/or reps of a set (1-4) of a scheduled exercise. " +
			"Values are free text; pass an empty string to clear a field. " +
			"Weight and reps given together are saved at once or not at all.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weightChanged := cmd.Flags().Changed("weight")
			repsChanged := cmd.Flags().Changed("reps")
			if !weightChanged && !repsChanged {
				return fmt.Errorf("at least one of --weight or --reps is required")
			}

			sched := tr.Schedule()
			day, err := resolveDay(sched, args[0])
			if err != nil {
				return err
			}
			exercise, err := resolveExercise(sched, day, args[1])
			if err != nil {
				return err
			}
			set, err := parseSetNumber(args[2])
			if err != nil {
				return err
			}

			var changes []tracker.Change
			if weightChanged {
				changes = append(changes, tracker.Change{Field: training.FieldWeight, Value: weightFlag})
			}
			if repsChanged {
				changes = append(changes, tracker.Change{Field: training.FieldReps, Value: repsFlag})
			}
			record, err := tr.Apply(ctx, day, exercise, set, changes...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s / %s set %d: %s\n", day, exercise, set+1, formatSet(record))
			return nil
		},
	}

	cmd.Flags().StringVar(&weightFlag, "weight", "", "Weight lifted, e.g. 80 or 80kg")
	cmd.Flags().StringVar(&repsFlag, "reps", "", "Repetitions performed")

	return cmd
}
