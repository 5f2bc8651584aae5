package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/config"
	"github.com/faizmokh/angkat/internal/files"
	"github.com/faizmokh/angkat/internal/logging"
	"github.com/faizmokh/angkat/internal/tracker"
	"github.com/faizmokh/angkat/internal/ui"
	"github.com/faizmokh/angkat/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, tr *tracker.Tracker, cfg config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "angkat",
		Short:   "Log and chart a weekly training plan from your terminal.",
		Version: version.Current().Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.Mirror(cmd.ErrOrStderr())
				log.SetLevel(log.DebugLevel)
			}
			if warning := tr.Warning(); warning != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ui.NewModel(ctx, tr)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror debug logs to stderr")

	cmd.AddCommand(
		newShowCommand(ctx, tr),
		newSetCommand(ctx, tr),
		newChartCommand(ctx, tr),
		newExercisesCommand(ctx, tr),
		newExportCommand(ctx, tr),
		newThemeCommand(ctx, tr),
		newServeCommand(ctx, tr, cfg.ListenAddr),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand loads configuration, opens the training log and runs the root command.
func ExecuteCommand(ctx context.Context) error {
	_ = godotenv.Load()

	manager, err := files.NewManager("")
	if err != nil {
		return err
	}

	cfg, err := config.Load(manager.ConfigPath())
	if err != nil {
		return err
	}

	logFile := ""
	if cfg.LogFile != "" {
		logFile = manager.Path(cfg.LogFile)
	}
	closer := logging.Setup(logging.Params{
		FilePath: logFile,
		Level:    cfg.LogLevel,
		JSON:     cfg.LogJSON,
	})
	defer closer.Close()

	sched, err := cfg.BuildSchedule()
	if err != nil {
		return err
	}

	tr, err := tracker.Open(ctx, manager, sched, cfg.TrackerOptions())
	if err != nil {
		return err
	}

	return NewRootCommand(ctx, tr, cfg).Execute()
}

// Main is a helper used by cmd/angkat/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
