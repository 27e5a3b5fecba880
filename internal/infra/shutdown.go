package infra

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Graceful blocks until SIGINT/SIGTERM or until ctx is done, then runs cb in
// order. All callbacks share one context bounded by timeout.
func Graceful(ctx context.Context, timeout time.Duration, cb ...func(context.Context)) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, f := range cb {
		f(shutdownCtx)
	}
	slog.Info("shutdown complete")
}
