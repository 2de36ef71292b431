package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// ExportIDKey is the context key for export invocation IDs.
	ExportIDKey contextKey = "export_id"

	// ModeKey is the context key for the export mode.
	ModeKey contextKey = "mode"

	// FormatKey is the context key for the export format.
	FormatKey contextKey = "format"

	// RequestIDKey is the context key for HTTP request IDs.
	RequestIDKey contextKey = "request_id"
)

var contextKeys = []contextKey{ExportIDKey, ModeKey, FormatKey, RequestIDKey}

// WithExportID adds an export invocation ID to the context.
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ExportIDKey, id)
}

// GetExportID retrieves the export invocation ID from the context.
func GetExportID(ctx context.Context) string {
	return getString(ctx, ExportIDKey)
}

// WithMode adds the export mode to the context.
func WithMode(ctx context.Context, mode string) context.Context {
	return context.WithValue(ctx, ModeKey, mode)
}

// GetMode retrieves the export mode from the context.
func GetMode(ctx context.Context) string {
	return getString(ctx, ModeKey)
}

// WithFormat adds the export format to the context.
func WithFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, FormatKey, format)
}

// GetFormat retrieves the export format from the context.
func GetFormat(ctx context.Context) string {
	return getString(ctx, FormatKey)
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return getString(ctx, RequestIDKey)
}

func getString(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// contextHandler copies the known context fields onto each record.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, key := range contextKeys {
		if v := getString(ctx, key); v != "" {
			r.AddAttrs(slog.String(string(key), v))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
