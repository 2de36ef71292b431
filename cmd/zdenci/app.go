package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/config"
	"zdenci/exporter/pkg/delivery"
	"zdenci/exporter/pkg/export"
	"zdenci/exporter/pkg/history"
	"zdenci/exporter/pkg/source"
	"zdenci/exporter/pkg/telemetry/metrics"
	"zdenci/exporter/pkg/telemetry/tracing"
	"zdenci/exporter/pkg/transform"
	"zdenci/exporter/pkg/zdenci"
)

// app is the set of long-lived components built from configuration. Every
// subcommand builds one and closes it on exit.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	sorter   *transform.Sorter
	client   *source.Client
	history  history.Storage
	recorder *history.Recorder
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	a.tracer = tracer

	sorter, err := transform.NewSorter(cfg.Export.Locale)
	if err != nil {
		return nil, cli.NewConfigError("export.locale", err.Error())
	}
	a.sorter = sorter

	if cfg.Source.BaseURL != "" {
		client, err := source.NewClient(source.ClientConfig{
			BaseURL:    cfg.Source.BaseURL,
			ListPath:   cfg.Source.ListPath,
			ExportPath: cfg.Source.ExportPath,
			Timeout:    cfg.Source.Timeout,
			Headers:    cfg.Source.Headers,
		}, source.WithLogger(logger))
		if err != nil {
			return nil, cli.NewConfigError("source.base_url", err.Error())
		}
		a.client = client
	}

	if cfg.History.Enabled {
		storage, err := openHistory(&cfg.History)
		if err != nil {
			return nil, err
		}
		a.history = storage
		a.recorder = history.NewRecorder(storage, &history.RecorderConfig{
			AsyncBuffer:  cfg.History.Recorder.AsyncBuffer,
			WriteTimeout: cfg.History.Recorder.WriteTimeout,
		})
	}

	return a, nil
}

// openHistory opens the configured history backend regardless of whether
// recording is enabled.
func openHistory(cfg *config.HistoryConfig) (history.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return history.NewMemoryStorage(), nil
	case "sqlite", "":
		return history.NewSQLiteStorage(&history.SQLiteConfig{
			Path:         cfg.SQLite.Path,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, cli.NewConfigError("history.backend", fmt.Sprintf("unsupported backend %q", cfg.Backend))
	}
}

// Close flushes pending history writes and spans and releases storage.
func (a *app) Close() error {
	var errs []error
	if a.recorder != nil {
		errs = append(errs, a.recorder.Close())
	}
	if a.history != nil {
		errs = append(errs, a.history.Close())
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// fetcher returns the remote client as an export.Fetcher, or nil when no
// base URL is configured.
func (a *app) fetcher() export.Fetcher {
	if a.client == nil {
		return nil
	}
	return a.client
}

// loadRecords reads the registry from path, or from the records API when
// path is empty.
func (a *app) loadRecords(ctx context.Context, path string) ([]zdenci.Record, error) {
	if path != "" {
		return source.LoadFile(path)
	}
	if a.client == nil {
		return nil, cli.NewConfigError("source", "either source.records_file or source.base_url is required")
	}
	return a.client.List(ctx)
}

func (a *app) orchestrator(mode zdenci.Mode, exporter export.Exporter) *export.Orchestrator {
	opts := []export.Option{
		export.WithLogger(a.logger),
		export.WithMetrics(a.metrics),
		export.WithTracer(a.tracer.Tracer()),
	}
	if a.recorder != nil {
		opts = append(opts, export.WithHistory(a.recorder))
	}
	return export.NewOrchestrator(mode, exporter, opts...)
}

// deliverer builds the delivery target for a download.
func (a *app) deliverer(ctx context.Context, target, dir string, overwrite bool, stdout io.Writer) (export.Deliverer, error) {
	switch target {
	case "file":
		return delivery.NewFileDeliverer(dir, overwrite, a.logger), nil
	case "stdout":
		return delivery.NewWriterDeliverer(stdout, "stdout"), nil
	case "minio":
		mc := a.cfg.Delivery.Minio
		d, err := delivery.NewMinioDeliverer(delivery.MinioConfig{
			Endpoint:     mc.Endpoint,
			AccessKey:    mc.AccessKey,
			SecretKey:    mc.SecretKey,
			Bucket:       mc.Bucket,
			Prefix:       mc.Prefix,
			Region:       mc.Region,
			Secure:       mc.Secure,
			CreateBucket: mc.CreateBucket,
		}, a.logger)
		if err != nil {
			return nil, cli.NewConfigError("delivery.minio", err.Error())
		}
		if err := d.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, cli.NewConfigError("delivery.target", fmt.Sprintf("unsupported target %q", target))
	}
}
