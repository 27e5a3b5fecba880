package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusPanic = "panic"
)

var (
	JobsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threadpool_jobs_submitted_total",
		Help: "The total number of jobs accepted by the pool queue",
	})

	JobsFinishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadpool_jobs_finished_total",
		Help: "The total number of jobs executed by workers",
	}, []string{"status"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threadpool_job_duration_seconds",
		Help:    "Duration of job execution in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	WorkerPoolBusy = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "threadpool_workers_busy",
		Help: "Number of workers currently executing a job",
	})

	WorkerPoolAlive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "threadpool_workers_alive",
		Help: "Number of worker goroutines that have not exited yet",
	})

	WorkerPoolQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "threadpool_queue_size",
		Help: "Current number of jobs waiting in the pool queue",
	})
)
