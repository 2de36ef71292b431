package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zdenci/exporter/pkg/config"
)

// ExportMetrics tracks export invocations.
type ExportMetrics struct {
	exportsTotal *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	payloadBytes *prometheus.HistogramVec
	rows         *prometheus.HistogramVec
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "exports_total",
				Help:      "Total number of export invocations",
			},
			[]string{"mode", "format", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_duration_seconds",
				Help:      "Duration of export invocations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"mode", "format"},
		),

		payloadBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_payload_bytes",
				Help:      "Size of delivered export payloads in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 12), // 1KB to 2MB
			},
			[]string{"mode", "format"},
		),

		rows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "export_rows",
				Help:      "Number of records per export",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
			},
			[]string{"mode", "format"},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.duration,
		em.payloadBytes,
		em.rows,
	)

	return em
}

// Record records metrics for one export.
func (em *ExportMetrics) Record(mode, format, status string, duration time.Duration, bytes, rows int) {
	em.exportsTotal.WithLabelValues(mode, format, status).Inc()
	em.duration.WithLabelValues(mode, format).Observe(duration.Seconds())

	if status != "success" {
		return
	}
	em.payloadBytes.WithLabelValues(mode, format).Observe(float64(bytes))
	if rows >= 0 {
		em.rows.WithLabelValues(mode, format).Observe(float64(rows))
	}
}
