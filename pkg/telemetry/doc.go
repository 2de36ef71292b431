// Package telemetry groups the exporter's observability packages.
//
//   - logging: slog loggers carrying export_id, mode, format and request_id
//   - metrics: Prometheus collectors for exports and snapshot refreshes
//   - tracing: OpenTelemetry spans for export invocations and HTTP calls
//   - health: liveness and readiness checks
package telemetry
