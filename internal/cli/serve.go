package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/faizmokh/angkat/internal/server"
	"github.com/faizmokh/angkat/internal/tracker"
)

func newServeCommand(ctx context.Context, tr *tracker.Tracker, defaultAddr string) *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the training log over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", addrFlag)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addrFlag, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", listener.Addr())
			return server.New(tr).Serve(ctx, listener)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", defaultAddr, "Listen address (host:port)")

	return cmd
}
