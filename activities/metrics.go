package activities

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnsco/potential/metrics"
)

const (
	metricFetches       = "activity_fetches_total"
	metricActivityCount = "activities"

	outcomeSuccess   = "success"
	outcomeFailed    = "failed"
	outcomeDiscarded = "discarded"
)

// Metrics records fetch outcomes for a Store.
type Metrics struct {
	fetches metrics.CounterVec
	count   metrics.Gauge
}

// NewMetrics creates the store metrics in the given registry.
func NewMetrics(registry metrics.Registry) (*Metrics, error) {
	fetches, err := registry.NewCounterVec(prometheus.CounterOpts{
		Name: metricFetches,
		Help: "Count of resolved activity fetches by outcome",
	}, []string{"outcome"})
	if err != nil {
		return nil, fmt.Errorf("creating %s metric: %w", metricFetches, err)
	}

	count, err := registry.NewGauge(prometheus.GaugeOpts{
		Name: metricActivityCount,
		Help: "Number of activities held by the store",
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s metric: %w", metricActivityCount, err)
	}

	return &Metrics{fetches: fetches, count: count}, nil
}

func (m *Metrics) observe(outcome string, s State) {
	if m == nil {
		return
	}
	m.fetches.With(prometheus.Labels{"outcome": outcome}).Inc()
	if outcome == outcomeSuccess {
		m.count.Set(float64(len(s.Activities)))
	}
}
