package workerpool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ilearn/threadpool/internal/metrics"
)

// Stats is a point-in-time snapshot of a pool.
type Stats struct {
	Workers   int    `json:"workers"`
	Alive     int    `json:"alive"`
	Busy      int    `json:"busy"`
	Queued    int    `json:"queued"`
	Submitted uint64 `json:"submitted"`
	Completed uint64 `json:"completed"`
	Panicked  uint64 `json:"panicked"`
}

type poolStats struct {
	// publishMu orders gauge updates so the last one always carries the latest values
	publishMu sync.Mutex
	metrics   metrics.Provider

	queued    atomic.Int64
	busy      atomic.Int64
	alive     atomic.Int64
	submitted atomic.Uint64
	completed atomic.Uint64
	panicked  atomic.Uint64
}

func newPoolStats(provider metrics.Provider) *poolStats {
	if provider == nil {
		provider = metrics.NewNoOpProvider()
	}
	return &poolStats{metrics: provider}
}

func (s *poolStats) jobQueued(depth int) {
	s.submitted.Add(1)
	s.queued.Store(int64(depth))
	s.metrics.JobSubmitted()
	s.publish()
}

func (s *poolStats) jobDequeued(depth int) {
	s.queued.Store(int64(depth))
	s.publish()
}

func (s *poolStats) jobStarted() {
	s.busy.Add(1)
	s.publish()
}

func (s *poolStats) jobFinished(elapsed time.Duration, panicked bool) {
	status := metrics.StatusOK
	if panicked {
		status = metrics.StatusPanic
		s.panicked.Add(1)
	} else {
		s.completed.Add(1)
	}
	s.busy.Add(-1)
	s.metrics.JobFinished(status, elapsed)
	s.publish()
}

func (s *poolStats) workerStarted() {
	s.alive.Add(1)
	s.publish()
}

func (s *poolStats) workerStopped() {
	s.alive.Add(-1)
	s.publish()
}

func (s *poolStats) publish() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	s.metrics.UpdateWorkerPoolMetrics(int(s.busy.Load()), int(s.alive.Load()), int(s.queued.Load()))
}

func (s *poolStats) snapshot(workers int) Stats {
	return Stats{
		Workers:   workers,
		Alive:     int(s.alive.Load()),
		Busy:      int(s.busy.Load()),
		Queued:    int(s.queued.Load()),
		Submitted: s.submitted.Load(),
		Completed: s.completed.Load(),
		Panicked:  s.panicked.Load(),
	}
}
