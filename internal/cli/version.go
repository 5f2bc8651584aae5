package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/version"
)

func newVersionCommand() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			build := version.Current()
			if outputJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(build)
			}
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Emit build information as JSON")

	return cmd
}
