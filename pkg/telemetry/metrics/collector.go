package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zdenci/exporter/pkg/config"
)

// Collector owns the metric registry and records export and snapshot
// activity. A disabled collector accepts every call and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics   *ExportMetrics
	snapshotMetrics *SnapshotMetrics
}

// NewCollector creates a new metrics collector. If registry is nil a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "zdenci"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "exporter"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		exportMetrics:   NewExportMetrics(cfg, registry),
		snapshotMetrics: NewSnapshotMetrics(cfg, registry),
	}
}

// RecordExport records one finished export invocation. rows < 0 means the
// row count is unknown and is not observed.
func (c *Collector) RecordExport(mode, format, status string, duration time.Duration, bytes, rows int) {
	if !c.config.Enabled {
		return
	}
	c.exportMetrics.Record(mode, format, status, duration, bytes, rows)
}

// RecordSnapshot records one snapshot refresh.
func (c *Collector) RecordSnapshot(status string, finished time.Time) {
	if !c.config.Enabled {
		return
	}
	c.snapshotMetrics.Record(status, finished)
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
