package workerpool

import (
	"log/slog"

	"github.com/ilearn/threadpool/internal/metrics"
)

// PanicHandler is called on the worker goroutine after a job panic was recovered.
// It runs outside the recover boundary and must not panic itself.
type PanicHandler func(workerID int, value any, stack []byte)

type options struct {
	logger  *slog.Logger
	metrics metrics.Provider
	onPanic PanicHandler
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(p metrics.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.metrics = p
		}
	}
}

func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		metrics: metrics.NewNoOpProvider(),
	}
}
