// Package server exposes the exporter's HTTP surface: snapshot downloads,
// on-demand snapshot refresh, metrics and health checks.
//
//	GET  /snapshots               last refresh and next scheduled run
//	GET  /snapshots/{format}      zdenci.csv or zdenci.json as an attachment
//	POST /snapshots/refresh       regenerate both snapshot files
//	GET  /metrics                 Prometheus metrics
//	GET  /healthz, /readyz        liveness and readiness
//	GET  /version                 build information
//
// Every request gets an X-Request-ID (taken from the request when present)
// which is attached to the request context for logging.
package server
