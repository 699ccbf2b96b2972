package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr   string
		noLoad bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard state and its actions over local HTTP",
		Long: `Serve the dashboard on a local port.

Examples:
  actai serve
  actai serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !noLoad {
				// A failed first load is shown in the state error banner; keep serving.
				if err := c.load(ctx); err != nil {
					c.log.Warn("initial load failed", zap.Error(err))
				}
			}

			srv := c.app.NewServer(addr)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&noLoad, "no-load", false, "skip fetching the dashboard on startup")
	return cmd
}
