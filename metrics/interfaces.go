// Package metrics provides Prometheus-compatible metrics for the activities store
// and the activities server.
//
// Two registries implement the same interface:
//   - ScrapeRegistry (server): metrics live in a Prometheus registry exposed on /metrics
//   - PushRegistry (CLI): every update is sent to a remote write endpoint such as VictoriaMetrics
//
// Components depend only on Registry, so they can be wired to either.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gauge is a metric that represents a single numerical value that can go up and down.
type Gauge interface {
	Set(float64)
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Inc()
	// Add adds v to the counter. It panics if v is negative.
	Add(v float64)
}

// CounterVec is a Counter partitioned by labels.
type CounterVec interface {
	With(prometheus.Labels) Counter
}

// Registry creates and registers metrics.
type Registry interface {
	NewGauge(opts prometheus.GaugeOpts) (Gauge, error)
	NewCounter(opts prometheus.CounterOpts) (Counter, error)
	NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error)
}
