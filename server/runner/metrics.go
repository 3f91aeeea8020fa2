package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnsco/potential/catalog"
	"github.com/dnsco/potential/metrics"
)

// Metrics records import outcomes and catalog size.
type Metrics struct {
	imports    metrics.CounterVec
	duration   metrics.Gauge
	activities metrics.Gauge
	events     metrics.Gauge
}

// NewMetrics registers the import metrics in registry.
func NewMetrics(registry metrics.Registry) (*Metrics, error) {
	imports, err := registry.NewCounterVec(prometheus.CounterOpts{
		Name: "imports_total",
		Help: "Sheet imports by outcome",
	}, []string{"outcome"})
	if err != nil {
		return nil, err
	}
	duration, err := registry.NewGauge(prometheus.GaugeOpts{
		Name: "import_duration_seconds",
		Help: "Duration of the last sheet import",
	})
	if err != nil {
		return nil, err
	}
	activities, err := registry.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_activities",
		Help: "Activities in the catalog",
	})
	if err != nil {
		return nil, err
	}
	events, err := registry.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_events",
		Help: "Activity events in the catalog",
	})
	if err != nil {
		return nil, err
	}
	return &Metrics{
		imports:    imports,
		duration:   duration,
		activities: activities,
		events:     events,
	}, nil
}

// ObserveCatalog sets the catalog size gauges.
func (m *Metrics) ObserveCatalog(cat *catalog.Catalog) {
	if m == nil {
		return
	}
	activities, events := cat.Counts()
	m.activities.Set(float64(activities))
	m.events.Set(float64(events))
}

func (m *Metrics) observe(err error, duration time.Duration, cat *catalog.Catalog) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	m.imports.With(prometheus.Labels{"outcome": outcome}).Inc()
	m.duration.Set(duration.Seconds())
	m.ObserveCatalog(cat)
}
