// Package metrics provides Prometheus metrics for the exporter.
//
// # Metrics
//
//   - zdenci_exporter_exports_total{mode,format,status}: export invocations
//   - zdenci_exporter_export_duration_seconds{mode,format}: end-to-end duration
//   - zdenci_exporter_export_payload_bytes{mode,format}: payload size
//   - zdenci_exporter_export_rows{mode,format}: exported records (local mode)
//   - zdenci_exporter_snapshot_runs_total{status}: snapshot refreshes
//   - zdenci_exporter_snapshot_last_success_timestamp_seconds
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	orchestrator := export.NewOrchestrator(mode, exporter, export.WithMetrics(collector))
//	http.Handle("/metrics", collector.Handler())
package metrics
