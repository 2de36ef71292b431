// Package tracing wires OpenTelemetry spans through the exporter.
//
// An export invocation is one span carrying its id, mode and format, with
// a span event per state transition. Remote exports start a client span
// and propagate W3C trace context to the records API; the HTTP server
// extracts incoming trace context.
//
// Tracing is off by default. Enabling it exports spans over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.1
package tracing
