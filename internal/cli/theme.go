package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/tracker"
)

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func newThemeCommand(ctx context.Context, tr *tracker.Tracker) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [dark|light|toggle]",
		Short: "Show or change the display theme.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, themeName(tr.DarkMode()))
				return nil
			}

			var dark bool
			switch strings.ToLower(args[0]) {
			case "dark":
				dark = true
				if err := tr.SetDarkMode(ctx, true); err != nil {
					return err
				}
			case "light":
				if err := tr.SetDarkMode(ctx, false); err != nil {
					return err
				}
			case "toggle":
				toggled, err := tr.ToggleDarkMode(ctx)
				if err != nil {
					return err
				}
				dark = toggled
			default:
				return fmt.Errorf("invalid theme %q (expected dark|light|toggle)", args[0])
			}

			fmt.Fprintf(out, "Theme set to %s\n", themeName(dark))
			return nil
		},
	}

	return cmd
}
