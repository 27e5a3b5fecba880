package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type workerState int32

const (
	workerRunning workerState = iota
	workerExiting
	workerJoined
)

func (s workerState) String() string {
	switch s {
	case workerRunning:
		return "running"
	case workerExiting:
		return "exiting"
	case workerJoined:
		return "joined"
	default:
		return "unknown"
	}
}

type worker struct {
	id    int
	state atomic.Int32
	// handle is closed when the goroutine exits; nil after join consumed it
	handle <-chan struct{}

	queue   *jobQueue
	stats   *poolStats
	logger  *slog.Logger
	tracer  trace.Tracer
	onPanic PanicHandler
}

func startWorker(id int, q *jobQueue, stats *poolStats, opts options, tracer trace.Tracer) *worker {
	done := make(chan struct{})
	w := &worker{
		id:      id,
		handle:  done,
		queue:   q,
		stats:   stats,
		logger:  opts.logger,
		tracer:  tracer,
		onPanic: opts.onPanic,
	}
	w.state.Store(int32(workerRunning))
	stats.workerStarted()
	go w.loop(done)
	return w
}

func (w *worker) loop(done chan<- struct{}) {
	defer close(done)
	defer w.stats.workerStopped()

	for {
		job, ok := w.queue.take()
		if !ok {
			w.state.Store(int32(workerExiting))
			w.logger.Debug("worker disconnected; shutting down", "worker", w.id)
			return
		}
		w.logger.Debug("worker got a job; executing", "worker", w.id)
		w.run(job)
	}
}

// run executes a single job. A panic is confined to the job: it is logged,
// recorded on the span and reported to the panic handler, and the worker
// goes on to its next take.
func (w *worker) run(job Job) {
	_, span := w.tracer.Start(context.Background(), "workerpool.job",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("worker.id", w.id)),
	)
	defer span.End()

	start := time.Now()
	w.stats.jobStarted()

	panicked := true
	defer func() {
		elapsed := time.Since(start)
		if r := recover(); r != nil {
			stack := debug.Stack()
			w.logger.Error("job panic recovered",
				"worker", w.id,
				"panic", r,
				"stack_trace", string(stack),
			)

			span.SetStatus(codes.Error, fmt.Sprintf("job panic: %v", r))
			span.SetAttributes(
				attribute.String("panic.value", fmt.Sprintf("%v", r)),
				attribute.String("panic.type", fmt.Sprintf("%T", r)),
				attribute.Bool("panic.recovered", true),
			)

			if w.onPanic != nil {
				w.onPanic(w.id, r, stack)
			}
		} else if !panicked {
			span.SetStatus(codes.Ok, "")
		}
		w.stats.jobFinished(elapsed, panicked)
	}()

	job()
	panicked = false
}

// join blocks until the worker goroutine has exited. The handle is consumed on
// the first call, later calls return immediately.
func (w *worker) join() {
	h := w.handle
	if h == nil {
		return
	}
	w.handle = nil
	<-h
	w.state.Store(int32(workerJoined))
}

func (w *worker) currentState() workerState {
	return workerState(w.state.Load())
}
