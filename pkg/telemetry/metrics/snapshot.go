package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zdenci/exporter/pkg/config"
)

// SnapshotMetrics tracks snapshot refreshes.
type SnapshotMetrics struct {
	runsTotal   *prometheus.CounterVec
	lastSuccess prometheus.Gauge
}

// NewSnapshotMetrics creates and registers snapshot metrics with the provided registry.
func NewSnapshotMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SnapshotMetrics {
	sm := &SnapshotMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "snapshot_runs_total",
				Help:      "Total number of snapshot refreshes",
			},
			[]string{"status"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "snapshot_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful snapshot refresh",
			},
		),
	}

	registry.MustRegister(sm.runsTotal, sm.lastSuccess)
	return sm
}

// Record records one refresh.
func (sm *SnapshotMetrics) Record(status string, finished time.Time) {
	sm.runsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		sm.lastSuccess.Set(float64(finished.Unix()))
	}
}
