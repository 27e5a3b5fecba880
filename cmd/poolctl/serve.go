package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ilearn/threadpool/internal/infra"
	"github.com/ilearn/threadpool/internal/loadgen"
	"github.com/ilearn/threadpool/internal/metrics"
	"github.com/ilearn/threadpool/internal/tracing"
	"github.com/ilearn/threadpool/internal/workerpool"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Keep a pool running under periodic load and expose admin endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cfg.Tracing.Enabled {
				shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Endpoint)
				if err != nil {
					return err
				}
				defer func() {
					flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := shutdownTracing(flushCtx); err != nil {
						slog.Error("Error shutting down tracer provider", "error", err)
					}
				}()
			}

			pool := workerpool.New(cfg.Pool.Size, workerpool.WithMetrics(metrics.NewPrometheusProvider()))

			admin := infra.NewAdmin(cfg.Admin.Address, pool)
			admin.Start()
			slog.Info("admin HTTP listening", "addr", cfg.Admin.Address)

			// curl -XGET 'http://localhost:6060/stats'
			// curl -XGET 'http://localhost:6060/metrics'

			plan := loadgen.Plan{
				Jobs:        cfg.Load.Jobs,
				JobDuration: cfg.Load.JobDuration,
				PanicEvery:  cfg.Load.PanicEvery,
				Rate:        cfg.Load.Rate,
			}
			loadCtx, stopLoad := context.WithCancel(ctx)
			loadDone := make(chan struct{})
			go func() {
				defer close(loadDone)
				runLoadLoop(loadCtx, pool, plan, cfg.Load.Interval)
			}()

			var closeErr error
			infra.Graceful(ctx, cfg.ShutdownTimeout,
				func(context.Context) {
					stopLoad()
					<-loadDone
				},
				admin.Shutdown,
				func(ctx context.Context) { closeErr = pool.CloseContext(ctx) },
			)
			return closeErr
		},
	}
}

func runLoadLoop(ctx context.Context, pool *workerpool.Pool, plan loadgen.Plan, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := loadgen.Run(ctx, pool, plan)
		if err != nil && ctx.Err() == nil {
			slog.Warn("load run had failures",
				"run_id", report.RunID,
				"failed", report.Failed,
				"errors", len(multierr.Errors(err)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
