package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"zdenci/exporter/pkg/delivery"
	"zdenci/exporter/pkg/export"
	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

// Formats are the snapshot formats, in write order.
var Formats = []zdenci.Format{zdenci.FormatCSV, zdenci.FormatJSON}

// Lister returns every record. source.Client satisfies it.
type Lister interface {
	List(ctx context.Context) ([]zdenci.Record, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc func(ctx context.Context) ([]zdenci.Record, error)

// List implements Lister.
func (f ListerFunc) List(ctx context.Context) ([]zdenci.Record, error) { return f(ctx) }

// MetricsRecorder receives refresh outcomes.
type MetricsRecorder interface {
	RecordSnapshot(status string, finished time.Time)
}

// Filename returns the snapshot file name for format.
func Filename(format zdenci.Format) string {
	return "zdenci." + string(format)
}

// Result describes a finished refresh.
type Result struct {
	Records    int
	Files      []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithJSONLD toggles JSON-LD annotations in zdenci.json. On by default.
func WithJSONLD(enabled bool) Option {
	return func(r *Refresher) { r.jsonld.Store(enabled) }
}

// WithMetrics records every refresh.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *Refresher) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// Refresher regenerates the snapshot files in a directory. Concurrent
// Refresh calls are serialized.
type Refresher struct {
	dir     string
	lister  Lister
	sorter  *transform.Sorter
	jsonld  atomic.Bool
	metrics MetricsRecorder
	logger  *slog.Logger

	mu   sync.Mutex
	last *Result
}

// NewRefresher creates a refresher writing into dir.
func NewRefresher(dir string, lister Lister, sorter *transform.Sorter, opts ...Option) *Refresher {
	r := &Refresher{
		dir:    dir,
		lister: lister,
		sorter: sorter,
		logger: slog.Default(),
	}
	r.jsonld.Store(true)
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "snapshot")
	return r
}

// SetJSONLD toggles JSON-LD annotations for subsequent refreshes.
func (r *Refresher) SetJSONLD(enabled bool) {
	r.jsonld.Store(enabled)
}

// Name identifies the refresher as a scheduled job.
func (r *Refresher) Name() string { return "snapshot" }

// Run implements Job.
func (r *Refresher) Run(ctx context.Context) error {
	_, err := r.Refresh(ctx)
	return err
}

// Dir returns the snapshot directory.
func (r *Refresher) Dir() string { return r.dir }

// Path returns the file path of the snapshot in format.
func (r *Refresher) Path(format zdenci.Format) string {
	return filepath.Join(r.dir, Filename(format))
}

// Last returns the most recent successful refresh, or nil.
func (r *Refresher) Last() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Refresh lists all records and rewrites both snapshot files.
func (r *Refresher) Refresh(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{StartedAt: time.Now()}
	err := r.refresh(ctx, res)
	res.FinishedAt = time.Now()

	status := "success"
	if err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "snapshot refresh failed", "error", err)
	} else {
		r.last = res
		r.logger.InfoContext(ctx, "snapshot refreshed",
			"records", res.Records,
			"dir", r.dir,
			"duration", res.FinishedAt.Sub(res.StartedAt),
		)
	}
	if r.metrics != nil {
		r.metrics.RecordSnapshot(status, res.FinishedAt)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Refresher) refresh(ctx context.Context, res *Result) error {
	records, err := r.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	records = r.sorter.Sort(records)
	res.Records = len(records)

	serializer := export.NewLocalExporter(nil, r.sorter).WithJSONLD(r.jsonld.Load())
	deliverer := delivery.NewFileDeliverer(r.dir, true, r.logger)

	files := make([]string, len(Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range Formats {
		g.Go(func() error {
			data, err := serializer.Serialize(gctx, format, records)
			if err != nil {
				return err
			}
			path, err := deliverer.Deliver(gctx, &export.Payload{
				Data:     data,
				Filename: Filename(format),
				MIMEType: format.MIMEType(),
				Format:   format,
				Rows:     len(records),
			})
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", Filename(format), err)
			}
			files[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	res.Files = files
	return nil
}

// Open opens the current snapshot in format for reading.
func (r *Refresher) Open(format zdenci.Format) (*os.File, error) {
	return os.Open(r.Path(format))
}
