package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ZDENCI_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// overrides named ZDENCI_SECTION_FIELD (e.g. ZDENCI_SOURCE_BASE_URL).
// Environment variables always take precedence over the file.
//
// The loading sequence is:
//  1. Load a .env file from the working directory, if present
//  2. Load YAML from path (an empty path means defaults only)
//  3. Apply default values
//  4. Apply environment variable overrides
//  5. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := decode(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func decode(path string) (*Config, error) {
	cfg := newBase()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// loadDotEnv loads variables from a dotenv file without overriding ones
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies ZDENCI_* environment variables. Values that
// fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	envString("MODE", &cfg.Mode)

	// Source overrides
	envString("SOURCE_BASE_URL", &cfg.Source.BaseURL)
	envString("SOURCE_LIST_PATH", &cfg.Source.ListPath)
	envString("SOURCE_EXPORT_PATH", &cfg.Source.ExportPath)
	envDuration("SOURCE_TIMEOUT", &cfg.Source.Timeout)
	envString("SOURCE_RECORDS_FILE", &cfg.Source.RecordsFile)
	envBool("SOURCE_WATCH", &cfg.Source.Watch)
	if val := os.Getenv(EnvPrefix + "SOURCE_AUTHORIZATION"); val != "" {
		if cfg.Source.Headers == nil {
			cfg.Source.Headers = make(map[string]string)
		}
		cfg.Source.Headers["Authorization"] = val
	}

	// Export overrides
	envString("EXPORT_LOCALE", &cfg.Export.Locale)
	envBool("EXPORT_JSONLD", &cfg.Export.JSONLD)

	// Delivery overrides
	envString("DELIVERY_TARGET", &cfg.Delivery.Target)
	envString("DELIVERY_DIR", &cfg.Delivery.Dir)
	envBool("DELIVERY_OVERWRITE", &cfg.Delivery.Overwrite)
	envString("DELIVERY_MINIO_ENDPOINT", &cfg.Delivery.Minio.Endpoint)
	envString("DELIVERY_MINIO_ACCESS_KEY", &cfg.Delivery.Minio.AccessKey)
	envString("DELIVERY_MINIO_SECRET_KEY", &cfg.Delivery.Minio.SecretKey)
	envString("DELIVERY_MINIO_BUCKET", &cfg.Delivery.Minio.Bucket)
	envString("DELIVERY_MINIO_PREFIX", &cfg.Delivery.Minio.Prefix)
	envString("DELIVERY_MINIO_REGION", &cfg.Delivery.Minio.Region)
	envBool("DELIVERY_MINIO_SECURE", &cfg.Delivery.Minio.Secure)

	// History overrides
	envBool("HISTORY_ENABLED", &cfg.History.Enabled)
	envString("HISTORY_BACKEND", &cfg.History.Backend)
	envString("HISTORY_SQLITE_PATH", &cfg.History.SQLite.Path)
	envInt("HISTORY_RETENTION_DAYS", &cfg.History.Retention.Days)
	envString("HISTORY_RETENTION_SCHEDULE", &cfg.History.Retention.Schedule)

	// Snapshot overrides
	envBool("SNAPSHOT_ENABLED", &cfg.Snapshot.Enabled)
	envString("SNAPSHOT_DIR", &cfg.Snapshot.Dir)
	envString("SNAPSHOT_SCHEDULE", &cfg.Snapshot.Schedule)
	envBool("SNAPSHOT_JSONLD", &cfg.Snapshot.JSONLD)

	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	if val := os.Getenv(EnvPrefix + "SERVER_ADMIN_KEY"); val != "" {
		cfg.Server.AdminKeys = append(cfg.Server.AdminKeys, val)
	}

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := cast.ToBoolE(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := cast.ToIntE(val); err == nil {
			*dst = i
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
