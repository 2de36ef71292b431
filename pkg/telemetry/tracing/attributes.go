package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Export span attribute keys.
const (
	AttrExportID     = attribute.Key("zdenci.export.id")
	AttrExportMode   = attribute.Key("zdenci.export.mode")
	AttrExportFormat = attribute.Key("zdenci.export.format")
	AttrExportRows   = attribute.Key("zdenci.export.rows")
	AttrExportBytes  = attribute.Key("zdenci.export.bytes")
	AttrExportQuery  = attribute.Key("zdenci.export.query")
	AttrExportState  = attribute.Key("zdenci.export.state")
	AttrExportTarget = attribute.Key("zdenci.export.target")
)

// ExportSpan returns start options for an export invocation span.
func ExportSpan(id, mode, format string) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrExportID.String(id),
			AttrExportMode.String(mode),
			AttrExportFormat.String(format),
		),
	}
}

// ServerSpan returns start options for an incoming HTTP request span.
func ServerSpan(r *http.Request) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		),
	}
}

// ClientSpan returns start options for an outgoing HTTP request span.
func ClientSpan(method, url string) []trace.SpanStartOption {
	return []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
		),
	}
}
