package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"zdenci/exporter/pkg/telemetry/logging"
	"zdenci/exporter/pkg/telemetry/tracing"
	"zdenci/exporter/pkg/zdenci"
)

// Deliverer hands a finished payload to its destination and returns where
// it ended up.
type Deliverer interface {
	Deliver(ctx context.Context, p *Payload) (string, error)
}

// MetricsRecorder receives one observation per finished invocation.
type MetricsRecorder interface {
	RecordExport(mode, format, status string, duration time.Duration, bytes, rows int)
}

// HistoryRecorder receives the result of every finished invocation.
type HistoryRecorder interface {
	RecordExport(ctx context.Context, r *Result)
}

// Result describes one export invocation.
type Result struct {
	ID         string
	Mode       zdenci.Mode
	Format     zdenci.Format
	States     []State
	Query      string
	Rows       int
	Bytes      int
	Filename   string
	Target     string
	StartedAt  time.Time
	FinishedAt time.Time
	Payload    *Payload `json:"-"`
	Err        error    `json:"-"`
}

// Status returns "success" or "error".
func (r *Result) Status() string {
	if r.Err != nil {
		return "error"
	}
	return "success"
}

// Duration returns how long the invocation took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithHistory sets the history recorder.
func WithHistory(h HistoryRecorder) Option {
	return func(o *Orchestrator) {
		o.history = h
	}
}

// WithTracer sets the tracer used for invocation spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

// Orchestrator drives export invocations:
//
//	idle -> collecting -> [fetching ->] transforming -> delivering -> idle
//
// with any failing step ending in failed. Invocations share no mutable
// state; concurrent calls run independently and are not de-duplicated.
type Orchestrator struct {
	mode     zdenci.Mode
	exporter Exporter
	logger   *slog.Logger
	metrics  MetricsRecorder
	history  HistoryRecorder
	tracer   trace.Tracer
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator for one export mode.
func NewOrchestrator(mode zdenci.Mode, exporter Exporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		mode:     mode,
		exporter: exporter,
		logger:   slog.Default(),
		tracer:   noop.NewTracerProvider().Tracer(tracing.InstrumentationName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "export.orchestrator")
	return o
}

// Mode returns the configured export mode.
func (o *Orchestrator) Mode() zdenci.Mode {
	return o.mode
}

// Run produces a payload without delivering it.
func (o *Orchestrator) Run(ctx context.Context, format zdenci.Format) (*Result, error) {
	return o.RunTo(ctx, format, nil)
}

// RunTo produces a payload and hands it to d. A nil deliverer skips the
// delivering step. On failure nothing is delivered and the returned error
// is a *StateError naming the failing step.
func (o *Orchestrator) RunTo(ctx context.Context, format zdenci.Format, d Deliverer) (*Result, error) {
	res := &Result{
		ID:        uuid.New().String(),
		Mode:      o.mode,
		Format:    format,
		Rows:      -1,
		StartedAt: o.now(),
	}

	ctx = logging.WithExportID(ctx, res.ID)
	ctx = logging.WithMode(ctx, string(o.mode))
	ctx = logging.WithFormat(ctx, string(format))

	ctx, span := o.tracer.Start(ctx, "export.run", tracing.ExportSpan(res.ID, string(o.mode), string(format))...)

	t := &tracker{states: []State{StateIdle}}
	ctx = withTracker(ctx, t)

	o.logger.DebugContext(ctx, "export started")

	payload, err := o.exporter.Export(ctx, format)
	if err == nil {
		res.Payload = payload
		res.Rows = payload.Rows
		res.Bytes = payload.Size()
		res.Filename = payload.Filename

		if d != nil {
			enter(ctx, StateDelivering)
			res.Target, err = d.Deliver(ctx, payload)
		}
	}

	if err != nil {
		failed := t.current()
		enter(ctx, StateFailed)
		res.Err = &StateError{ID: res.ID, State: failed, Cause: err}
		res.Payload = nil
	} else {
		enter(ctx, StateIdle)
	}

	res.States, res.Query = t.snapshot()
	res.FinishedAt = o.now()
	span.SetAttributes(
		tracing.AttrExportRows.Int(res.Rows),
		tracing.AttrExportBytes.Int(res.Bytes),
		tracing.AttrExportQuery.String(res.Query),
		tracing.AttrExportTarget.String(res.Target),
	)
	tracing.End(span, res.Err)
	o.finish(ctx, res)

	return res, res.Err
}

func (o *Orchestrator) finish(ctx context.Context, res *Result) {
	if res.Err != nil {
		o.logger.ErrorContext(ctx, "export failed",
			"error", res.Err,
			"states", res.States,
			"duration_ms", res.Duration().Milliseconds(),
		)
	} else {
		o.logger.InfoContext(ctx, "export finished",
			"rows", res.Rows,
			"bytes", res.Bytes,
			"target", res.Target,
			"duration_ms", res.Duration().Milliseconds(),
		)
	}

	if o.metrics != nil {
		o.metrics.RecordExport(string(res.Mode), string(res.Format), res.Status(), res.Duration(), res.Bytes, res.Rows)
	}
	if o.history != nil {
		o.history.RecordExport(context.WithoutCancel(ctx), res)
	}
}
