package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "source.base_url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateMode(cfg)...)
	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateDelivery(&cfg.Delivery)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateSnapshot(&cfg.Snapshot)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateMode(cfg *Config) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "local":
	case "remote":
		if cfg.Source.BaseURL == "" {
			errs = append(errs, FieldError{
				Field:   "source.base_url",
				Message: "base URL is required in remote mode",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "mode",
			Message: fmt.Sprintf("invalid mode %q (must be 'local' or 'remote')", cfg.Mode),
		})
	}

	return errs
}

func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		switch {
		case err != nil:
			errs = append(errs, FieldError{
				Field:   "source.base_url",
				Message: fmt.Sprintf("invalid URL format: %v", err),
			})
		case u.Scheme != "http" && u.Scheme != "https":
			errs = append(errs, FieldError{
				Field:   "source.base_url",
				Message: "URL scheme must be http or https",
			})
		case u.Host == "":
			errs = append(errs, FieldError{
				Field:   "source.base_url",
				Message: "URL must include a host",
			})
		}
	}

	if !strings.HasPrefix(cfg.ListPath, "/") {
		errs = append(errs, FieldError{Field: "source.list_path", Message: "path must start with '/'"})
	}
	if !strings.HasPrefix(cfg.ExportPath, "/") {
		errs = append(errs, FieldError{Field: "source.export_path", Message: "path must start with '/'"})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "source.timeout", Message: "timeout must be non-negative"})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{Field: "source.watch_debounce", Message: "debounce must be non-negative"})
	}
	if cfg.Watch && cfg.RecordsFile == "" {
		errs = append(errs, FieldError{
			Field:   "source.watch",
			Message: "watch requires records_file",
		})
	}

	return errs
}

func validateExport(cfg *ExportConfig) []FieldError {
	if _, err := language.Parse(cfg.Locale); err != nil {
		return []FieldError{{
			Field:   "export.locale",
			Message: fmt.Sprintf("invalid locale %q: %v", cfg.Locale, err),
		}}
	}
	return nil
}

func validateDelivery(cfg *DeliveryConfig) []FieldError {
	var errs []FieldError

	validTargets := map[string]bool{"file": true, "stdout": true, "minio": true}
	if !validTargets[cfg.Target] {
		errs = append(errs, FieldError{
			Field:   "delivery.target",
			Message: fmt.Sprintf("invalid target %q (must be 'file', 'stdout', or 'minio')", cfg.Target),
		})
	}

	if cfg.LockTimeout < 0 {
		errs = append(errs, FieldError{Field: "delivery.lock_timeout", Message: "lock timeout must be non-negative"})
	}

	if cfg.Target == "minio" {
		if cfg.Minio.Endpoint == "" {
			errs = append(errs, FieldError{Field: "delivery.minio.endpoint", Message: "endpoint is required for minio delivery"})
		}
		if cfg.Minio.Bucket == "" {
			errs = append(errs, FieldError{Field: "delivery.minio.bucket", Message: "bucket is required for minio delivery"})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Backend != "memory" && cfg.Backend != "sqlite" {
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend %q (must be 'memory' or 'sqlite')", cfg.Backend),
		})
	}
	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{Field: "history.sqlite.max_open_conns", Message: "must be non-negative"})
	}
	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{Field: "history.recorder.async_buffer", Message: "must be non-negative"})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{Field: "history.retention.days", Message: "retention days must be non-negative"})
	}
	if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "history.retention.schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	return errs
}

func validateSnapshot(cfg *SnapshotConfig) []FieldError {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return []FieldError{{
			Field:   "snapshot.schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		}}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be 'debug', 'info', 'warn', or 'error')", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be 'json', 'text', or 'console')", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "path must start with '/'"})
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.health.check_timeout", Message: "check timeout must be non-negative"})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never":
	case "ratio":
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio must be between 0 and 1, got %g", cfg.Tracing.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be 'always', 'never', or 'ratio')", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
	}

	return errs
}
