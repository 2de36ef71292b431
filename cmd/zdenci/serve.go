package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"zdenci/exporter/pkg/cli"
	"zdenci/exporter/pkg/config"
	"zdenci/exporter/pkg/grid"
	"zdenci/exporter/pkg/history"
	"zdenci/exporter/pkg/security/auth"
	"zdenci/exporter/pkg/server"
	"zdenci/exporter/pkg/snapshot"
	"zdenci/exporter/pkg/source"
	"zdenci/exporter/pkg/telemetry/health"
	"zdenci/exporter/pkg/telemetry/logging"
	"zdenci/exporter/pkg/zdenci"
)

func newServeCmd(g *globals) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve snapshots, metrics and health checks",
		Long: `Run the snapshot scheduler and an HTTP server exposing:

  GET  /snapshots            snapshot status
  GET  /snapshots/{format}   zdenci.csv or zdenci.json as an attachment
  POST /snapshots/refresh    regenerate snapshots now
  GET  /metrics              Prometheus metrics
  GET  /healthz, /readyz     liveness and readiness checks

When source.records_file is set and source.watch is enabled, the records
file is reloaded on change and the snapshots are regenerated.

SIGHUP reloads the configuration file and applies the log level, the
snapshot JSON-LD setting and the admin keys without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				g.cfg.Server.ListenAddress = listen
			}
			return runServe(cmd.Context(), g)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}

// reloadSink stores reloaded records in the table and signals that the
// snapshots are out of date.
type reloadSink struct {
	table   *grid.Table
	changed chan struct{}
}

func (s *reloadSink) SetRows(rows []zdenci.Record) {
	s.table.SetRows(rows)
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// reloader applies a reloaded configuration to the running server.
type reloader struct {
	g         *globals
	refresher *snapshot.Refresher
	admin     *auth.APIKeyValidator
}

// reload reads the configuration file again and applies the settings that
// can change at runtime. Everything else keeps its startup value.
func (r *reloader) reload() error {
	if _, err := config.ReloadConfig(r.g.cfgPath); err != nil {
		return err
	}
	cfg := config.GetConfig()

	if r.g.logLevel == "" && !r.g.verbose {
		level, err := logging.ParseLevel(cfg.Telemetry.Logging.Level)
		if err != nil {
			return err
		}
		r.g.levelVar.Set(level)
	}
	r.refresher.SetJSONLD(cfg.Snapshot.JSONLD)
	r.admin.SetKeys(auth.KeysFromStrings(cfg.Server.AdminKeys))

	r.g.logger.Info("configuration reloaded",
		"path", r.g.cfgPath,
		"log_level", cfg.Telemetry.Logging.Level,
		"snapshot_jsonld", cfg.Snapshot.JSONLD,
		"admin_keys", r.admin.Len(),
	)
	return nil
}

func runServe(ctx context.Context, gl *globals) error {
	cfg, logger := gl.cfg, gl.logger

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn("cleanup failed", "error", cerr)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	// The lister reads the in-memory table when a records file is configured,
	// otherwise the records API on every refresh.
	lister := recordsLister(a, "")
	var (
		watcher *source.Watcher
		sink    *reloadSink
	)
	if path := cfg.Source.RecordsFile; path != "" {
		records, err := source.LoadFile(path)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		sink = &reloadSink{table: grid.New(records), changed: make(chan struct{}, 1)}
		if cfg.Source.Watch {
			watcher, err = source.NewWatcher(path, sink, cfg.Source.WatchDebounce, logger)
			if err != nil {
				return cli.NewCommandError("serve", err)
			}
		}
		lister = snapshot.ListerFunc(func(context.Context) ([]zdenci.Record, error) {
			return sink.table.CurrentRows(), nil
		})
	}

	refresher := snapshot.NewRefresher(cfg.Snapshot.Dir, lister, a.sorter,
		snapshot.WithJSONLD(cfg.Snapshot.JSONLD),
		snapshot.WithMetrics(a.metrics),
		snapshot.WithLogger(logger),
	)

	scheduler := snapshot.NewScheduler(logger)
	if cfg.Snapshot.Enabled {
		if err := scheduler.Add(cfg.Snapshot.Schedule, refresher); err != nil {
			return cli.NewConfigError("snapshot.schedule", err.Error())
		}
	}
	if a.history != nil && cfg.History.Retention.Days > 0 {
		pruner := history.NewPruner(a.history, cfg.History.Retention.Days)
		if err := scheduler.Add(cfg.History.Retention.Schedule, pruner); err != nil {
			return cli.NewConfigError("history.retention.schedule", err.Error())
		}
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	if a.history != nil {
		checker.Register("history", health.PingCheck(a.history), true)
	}
	if a.client != nil {
		checker.Register("source", health.PingCheck(a.client), false)
	}
	if cfg.Snapshot.Enabled {
		checker.Register("snapshot", health.FileFreshnessCheck(refresher.Path(zdenci.FormatCSV), 0), false)
	}

	routes := server.Routes{
		Snapshots: refresher,
		Scheduler: scheduler,
		Health:    checker,
		Version:   versionInfo(),
		Tracer:    a.tracer,
		Logger:    logger,
	}
	admin := auth.NewAPIKeyValidator(auth.KeysFromStrings(cfg.Server.AdminKeys))
	routes.Admin = auth.NewAPIKeyMiddleware(admin, nil, logger).HandleIfConfigured
	if admin.Len() == 0 {
		logger.Warn("no admin keys configured, snapshot refresh endpoint is open")
	}
	if cfg.Telemetry.Metrics.Enabled {
		routes.Metrics = a.metrics.Handler()
		routes.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	srv := server.New(&cfg.Server, server.NewRouter(routes), logger)

	if cfg.Snapshot.Enabled && cfg.Snapshot.OnStartup {
		if _, err := refresher.Refresh(ctx); err != nil {
			logger.Error("initial snapshot refresh failed", "error", err)
		}
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	if watcher != nil {
		g.Go(func() error {
			return watcher.Watch(ctx)
		})
		if cfg.Snapshot.Enabled {
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-sink.changed:
						if _, err := refresher.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
							logger.Error("snapshot refresh after reload failed", "error", err)
						}
					}
				}
			})
		}
	}

	rl := &reloader{g: gl, refresher: refresher, admin: admin}
	reloads := cli.ReloadSignals(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-reloads:
				if err := rl.reload(); err != nil {
					logger.Error("configuration reload failed, keeping current settings", "error", err)
					continue
				}
				if cfg.Snapshot.Enabled {
					if _, err := refresher.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("snapshot refresh after reload failed", "error", err)
					}
				}
			}
		}
	})

	g.Go(func() error {
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	logger.Info("zdenci serving",
		"listen_address", cfg.Server.ListenAddress,
		"snapshot_dir", refresher.Dir(),
		"mode", cfg.Mode,
	)

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}
