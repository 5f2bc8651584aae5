package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/tracker"
)

func newShowCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the training week with the sets logged so far.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := tr.Schedule()
			days := sched.Days()
			if dayFlag != "" {
				day, err := resolveDay(sched, dayFlag)
				if err != nil {
					return err
				}
				days = []string{day}
			}

			printDays(cmd, tr.Snapshot(), sched, days)
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "Only show this day (case-insensitive)")

	return cmd
}
