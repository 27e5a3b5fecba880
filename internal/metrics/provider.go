package metrics

import "time"

type Provider interface {
	JobSubmitted()
	JobFinished(status string, duration time.Duration)

	UpdateWorkerPoolMetrics(busy, alive, queueSize int)
}

type PrometheusProvider struct{}

func NewPrometheusProvider() *PrometheusProvider {
	return &PrometheusProvider{}
}

func (p *PrometheusProvider) JobSubmitted() {
	JobsSubmittedTotal.Inc()
}

func (p *PrometheusProvider) JobFinished(status string, duration time.Duration) {
	JobsFinishedTotal.WithLabelValues(status).Inc()
	JobDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (p *PrometheusProvider) UpdateWorkerPoolMetrics(busy, alive, queueSize int) {
	WorkerPoolBusy.Set(float64(busy))
	WorkerPoolAlive.Set(float64(alive))
	WorkerPoolQueueSize.Set(float64(queueSize))
}

type NoOpProvider struct{}

func NewNoOpProvider() *NoOpProvider {
	return &NoOpProvider{}
}

func (p *NoOpProvider) JobSubmitted()                                      {}
func (p *NoOpProvider) JobFinished(status string, duration time.Duration)  {}
func (p *NoOpProvider) UpdateWorkerPoolMetrics(busy, alive, queueSize int) {}
