package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/training"
)

func newExportCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	var (
		outputFlag string
		rawFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the training log as CSV.",
		Long: "export writes every logged set as Day,Exercise,Set,Weight,Reps rows. " +
			"Relative paths are resolved against the data directory; '-' writes to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := training.CSVOptions{Raw: rawFlag}
			if outputFlag == "-" {
				return tr.WriteCSV(cmd.OutOrStdout(), opts)
			}

			path, err := tr.ExportFile(outputFlag, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported training log to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", training.CSVFilename, "Destination file, or - for stdout")
	cmd.Flags().BoolVar(&rawFlag, "raw", tr.CSVOptions().Raw, "Write fields without CSV quoting")

	return cmd
}
