// Package metrics records export outcomes in Prometheus format. A one-shot
// command has no scrape endpoint, so the registry is written to a textfile
// for the node exporter to pick up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsNamespace = "easygen"

type Metrics struct {
	registry *prometheus.Registry

	ItemsTotal        *prometheus.CounterVec
	CollectionsFailed *prometheus.CounterVec
	RunDuration       prometheus.Gauge
	LastRunTimestamp  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "items_total",
				Help:      "Items processed by the export, by collection and outcome",
			},
			[]string{"collection", "outcome"},
		),
		CollectionsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "collections_failed_total",
				Help:      "Collections that could not be loaded or enumerated",
			},
			[]string{"collection"},
		),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last export run",
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last export run finished",
		}),
	}
}

func (m *Metrics) Item(collection, outcome string) {
	m.ItemsTotal.WithLabelValues(collection, outcome).Inc()
}

func (m *Metrics) CollectionFailed(collection string) {
	m.CollectionsFailed.WithLabelValues(collection).Inc()
}

func (m *Metrics) Finish(duration time.Duration, at time.Time) {
	m.RunDuration.Set(duration.Seconds())
	m.LastRunTimestamp.Set(float64(at.Unix()))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
