package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/webxl/inflation-planner/internal/api"
	"github.com/webxl/inflation-planner/internal/metrics"
	"github.com/webxl/inflation-planner/internal/shortfall"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the projection and adjustment API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				settings.Server.Addr = addr
			}

			logger, err := newLogger(settings)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			engine, err := newEngine(cmd, settings)
			if err != nil {
				return err
			}
			solver := shortfall.NewSolver(engine, shortfall.SolverOptions{
				Tolerance:     settings.Solver.Tolerance,
				MaxIterations: settings.Solver.MaxIterations,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(api.Options{
				Engine:       engine,
				Solver:       solver,
				Metrics:      metrics.New(),
				Logger:       logger,
				SolveTimeout: settings.Server.SolveTimeout,
			})
			return server.ListenAndServe(ctx, settings.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}
