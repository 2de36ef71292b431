package config

import "time"

// Default values for configuration fields.
const (
	DefaultMode = "local"

	// Source defaults
	DefaultListPath      = "/api/zdenci"
	DefaultExportPath    = "/api/zdenci/export"
	DefaultWatchDebounce = 200 * time.Millisecond

	// Export defaults
	DefaultLocale = "hr"

	// Delivery defaults
	DefaultDeliveryTarget = "file"
	DefaultDeliveryDir    = "."
	DefaultLockTimeout    = 5 * time.Second

	// History defaults
	DefaultHistoryBackend       = "sqlite"
	DefaultHistorySQLitePath    = "data/history.db"
	DefaultHistoryMaxOpenConns  = 4
	DefaultHistoryBusyTimeout   = 5 * time.Second
	DefaultRecorderAsyncBuffer  = 100
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRetentionDays        = 90
	DefaultRetentionSchedule    = "0 3 * * *"

	// Snapshot defaults
	DefaultSnapshotDir      = "data/snapshots"
	DefaultSnapshotSchedule = "0 * * * *"

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "zdenci"
	DefaultMetricsSubsystem   = "exporter"
	DefaultHealthCheckTimeout = 5 * time.Second

	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingSampler     = "always"
	DefaultTracingServiceName = "zdenci-exporter"
)

// DefaultDurationBuckets are the export duration histogram buckets.
var DefaultDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := newBase()
	ApplyDefaults(cfg)
	return cfg
}

// newBase returns a Config holding the boolean defaults that are true.
// Files are decoded on top of it so an absent key keeps its default while
// an explicit false still wins.
func newBase() *Config {
	cfg := &Config{}
	cfg.History.SQLite.WALMode = true
	cfg.Snapshot.JSONLD = true
	cfg.Telemetry.Logging.RedactSecrets = true
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Boolean
// fields are left as loaded, since false is a meaningful value.
func ApplyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}

	applySourceDefaults(&cfg.Source)
	applyExportDefaults(&cfg.Export)
	applyDeliveryDefaults(&cfg.Delivery)
	applyHistoryDefaults(&cfg.History)
	applySnapshotDefaults(&cfg.Snapshot)
	applyServerDefaults(&cfg.Server)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applySourceDefaults(cfg *SourceConfig) {
	if cfg.ListPath == "" {
		cfg.ListPath = DefaultListPath
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = DefaultExportPath
	}
	if cfg.WatchDebounce == 0 {
		cfg.WatchDebounce = DefaultWatchDebounce
	}
}

func applyExportDefaults(cfg *ExportConfig) {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
}

func applyDeliveryDefaults(cfg *DeliveryConfig) {
	if cfg.Target == "" {
		cfg.Target = DefaultDeliveryTarget
	}
	if cfg.Dir == "" {
		cfg.Dir = DefaultDeliveryDir
	}
	if cfg.LockTimeout == 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.Backend == "" {
		cfg.Backend = DefaultHistoryBackend
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultHistorySQLitePath
	}
	if cfg.SQLite.MaxOpenConns == 0 {
		cfg.SQLite.MaxOpenConns = DefaultHistoryMaxOpenConns
	}
	if cfg.SQLite.BusyTimeout == 0 {
		cfg.SQLite.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.Recorder.AsyncBuffer == 0 {
		cfg.Recorder.AsyncBuffer = DefaultRecorderAsyncBuffer
	}
	if cfg.Recorder.WriteTimeout == 0 {
		cfg.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if cfg.Retention.Days == 0 {
		cfg.Retention.Days = DefaultRetentionDays
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}
}

func applySnapshotDefaults(cfg *SnapshotConfig) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultSnapshotDir
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSnapshotSchedule
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}

	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Timeout == 0 {
		cfg.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
}
