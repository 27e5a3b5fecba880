// Package workerpool runs jobs on a fixed set of goroutines fed from one
// unbounded queue.
//
// A pool must be closed when it is no longer needed, either with Close or by
// scoping it with With. An unclosed pool leaks its worker goroutines. Close
// waits for every queued job to finish, so a job that never returns blocks it
// forever, and calling Close from inside a job deadlocks.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

const tracerName = "threadpool-workerpool"

type Pool struct {
	workers []*worker
	queue   *jobQueue
	// sender is nil once the pool has started tearing down
	sender atomic.Pointer[Sender]
	stats  *poolStats
	logger *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// New starts a pool of size workers. It panics if size is not positive:
// a pool without workers can never make progress.
func New(size int, opts ...Option) *Pool {
	if size <= 0 {
		panic(fmt.Sprintf("workerpool: size must be greater than zero, got %d", size))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stats := newPoolStats(o.metrics)
	q := newJobQueue(stats)
	p := &Pool{
		workers: make([]*worker, 0, size),
		queue:   q,
		stats:   stats,
		logger:  o.logger,
		closed:  make(chan struct{}),
	}
	p.sender.Store(&Sender{q: q})

	tracer := otel.Tracer(tracerName)
	for i := 0; i < size; i++ {
		p.workers = append(p.workers, startWorker(i, q, stats, o, tracer))
	}

	p.logger.Info("worker pool started", "size", size)
	return p
}

// With runs fn against a fresh pool and closes the pool when fn returns or panics.
func With(size int, fn func(*Pool) error, opts ...Option) error {
	p := New(size, opts...)
	defer p.Close()
	return fn(p)
}

// Execute queues job for execution and returns without waiting for it.
func (p *Pool) Execute(job Job) error {
	s := p.sender.Load()
	if s == nil {
		return ErrPoolClosed
	}
	return s.Send(job)
}

// Sender returns an extra submitting handle for producers that do not own the pool.
func (p *Pool) Sender() (Sender, error) {
	s := p.sender.Load()
	if s == nil {
		return Sender{}, ErrPoolClosed
	}
	return *s, nil
}

func (p *Pool) Size() int {
	return len(p.workers)
}

func (p *Pool) Stats() Stats {
	return p.stats.snapshot(len(p.workers))
}

// Closed reports whether teardown has started.
func (p *Pool) Closed() bool {
	return p.sender.Load() == nil
}

// Close stops accepting jobs, lets workers drain the queue and waits for all of
// them to exit. It is safe to call more than once and from several goroutines.
func (p *Pool) Close() {
	p.shutdown()
	<-p.closed
}

// CloseContext is Close with a bound on the wait. When ctx ends first the
// workers keep draining in the background and the context error is returned.
func (p *Pool) CloseContext(ctx context.Context) error {
	p.shutdown()
	select {
	case <-p.closed:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "wait for workers")
	}
}

func (p *Pool) shutdown() {
	p.closeOnce.Do(func() {
		// the sender has to go before any join, otherwise idle workers never wake up
		if s := p.sender.Swap(nil); s != nil {
			s.q.close()
		}
		go p.joinWorkers()
	})
}

func (p *Pool) joinWorkers() {
	defer close(p.closed)

	for _, w := range p.workers {
		p.logger.Info("shutting down worker", "worker", w.id)
		w.join()
	}
	p.logger.Info("worker pool stopped", "completed", p.stats.completed.Load(), "panicked", p.stats.panicked.Load())
}
