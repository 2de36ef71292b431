package config

import "time"

// Config is the root configuration structure for the zdenci exporter.
type Config struct {
	// Mode selects the export strategy for the whole deployment: "local"
	// serializes the in-memory filtered rows, "remote" forwards the filter
	// state to the server's export endpoint.
	// Default: "local"
	Mode string `yaml:"mode"`

	// Source describes where records come from.
	Source SourceConfig `yaml:"source"`

	// Export contains serialization settings for local exports.
	Export ExportConfig `yaml:"export"`

	// Delivery controls where finished payloads go.
	Delivery DeliveryConfig `yaml:"delivery"`

	// History contains export audit trail settings.
	History HistoryConfig `yaml:"history"`

	// Snapshot contains the full-dataset snapshot settings.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Server contains the HTTP server configuration used by "serve".
	Server ServerConfig `yaml:"server"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SourceConfig configures the records source.
type SourceConfig struct {
	// BaseURL is the scheme and host of the zdenci server
	// (e.g. "https://zdenci.example.hr").
	BaseURL string `yaml:"base_url"`

	// ListPath is the listing endpoint path.
	// Default: "/api/zdenci"
	ListPath string `yaml:"list_path"`

	// ExportPath is the server-side export endpoint path.
	// Default: "/api/zdenci/export"
	ExportPath string `yaml:"export_path"`

	// Timeout bounds a single request. Zero means no timeout; context
	// cancellation is always honoured.
	Timeout time.Duration `yaml:"timeout"`

	// Headers are sent with every request (e.g. Authorization).
	Headers map[string]string `yaml:"headers"`

	// RecordsFile, when set, loads records from a local JSON file instead
	// of the listing endpoint.
	RecordsFile string `yaml:"records_file"`

	// Watch reloads RecordsFile when it changes.
	Watch bool `yaml:"watch"`

	// WatchDebounce coalesces bursts of file events.
	// Default: 200ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// ExportConfig configures local serialization.
type ExportConfig struct {
	// Locale is the BCP 47 tag used for collation when sorting rows.
	// Default: "hr"
	Locale string `yaml:"locale"`

	// JSONLD adds @context and @type to every JSON record.
	JSONLD bool `yaml:"jsonld"`
}

// DeliveryConfig configures payload delivery.
type DeliveryConfig struct {
	// Target is one of "file", "stdout" or "minio".
	// Default: "file"
	Target string `yaml:"target"`

	// Dir is the download directory for file delivery.
	// Default: "."
	Dir string `yaml:"dir"`

	// Overwrite replaces an existing file instead of picking a unique name.
	Overwrite bool `yaml:"overwrite"`

	// LockTimeout bounds how long file delivery waits for the directory lock.
	// Default: 5s
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// Minio configures the S3-compatible target.
	Minio MinioConfig `yaml:"minio"`
}

// MinioConfig configures the S3-compatible delivery target.
type MinioConfig struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Secure       bool   `yaml:"secure"`
	CreateBucket bool   `yaml:"create_bucket"`
}

// HistoryConfig configures the export audit trail.
type HistoryConfig struct {
	// Enabled turns on history recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder configures asynchronous writes.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention configures pruning of old entries.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite history backend.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the connection pool size.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig configures the asynchronous history recorder.
type RecorderConfig struct {
	// AsyncBuffer is the pending-write queue size.
	// Default: 100
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single history write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig configures pruning of old history entries.
type RetentionConfig struct {
	// Days is how long entries are kept. Zero keeps everything.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is the cron expression for pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// SnapshotConfig configures full-dataset snapshots.
type SnapshotConfig struct {
	// Enabled runs the snapshot scheduler in "serve".
	Enabled bool `yaml:"enabled"`

	// Dir is where zdenci.csv and zdenci.json are written.
	// Default: "data/snapshots"
	Dir string `yaml:"dir"`

	// Schedule is the cron expression for refreshes.
	// Default: "0 * * * *"
	Schedule string `yaml:"schedule"`

	// JSONLD enriches the JSON snapshot with @context and @type.
	// Default: true
	JSONLD bool `yaml:"jsonld"`

	// OnStartup refreshes once when the scheduler starts.
	OnStartup bool `yaml:"on_startup"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// ListenAddress is the "host:port" to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AdminKeys are the API keys accepted by POST /snapshots/refresh. With
	// no keys the endpoint is open.
	AdminKeys []string `yaml:"admin_keys"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Health  HealthConfig  `yaml:"health"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json", "text" or "console".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks credentials in log output.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled turns on Prometheus metrics.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "zdenci"
	Namespace string `yaml:"namespace"`

	// Subsystem follows the namespace in metric names.
	// Default: "exporter"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets are the export duration histogram buckets in seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// HealthConfig configures health checks.
type HealthConfig struct {
	// CheckTimeout bounds each readiness check.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// TracingConfig contains OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled turns span export on. Disabled tracing uses a no-op tracer.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each span export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler is "always", "never" or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the "ratio" sampler.
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as service.name.
	// Default: "zdenci-exporter"
	ServiceName string `yaml:"service_name"`
}
