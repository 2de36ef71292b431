package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(NewDefault()); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := NewDefault()
	cfg.Mode = "nope"
	cfg.Delivery.Target = "ftp"
	cfg.History.Backend = "postgres"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(verr.Errors), verr)
	}

	fields := make([]string, len(verr.Errors))
	for i, fe := range verr.Errors {
		fields[i] = fe.Field
	}
	want := []string{"mode", "delivery.target", "history.backend", "telemetry.logging.level"}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("error %d: expected field %q, got %q", i, want[i], fields[i])
		}
	}
	if !strings.Contains(err.Error(), "with 4 errors") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative timeout", func(c *Config) { c.Source.Timeout = -1 }, "source.timeout"},
		{"relative export path", func(c *Config) { c.Source.ExportPath = "api/export" }, "source.export_path"},
		{"url without host", func(c *Config) { c.Source.BaseURL = "https://" }, "source.base_url"},
		{"negative retention", func(c *Config) { c.History.Retention.Days = -1 }, "history.retention.days"},
		{"bad retention cron", func(c *Config) { c.History.Retention.Schedule = "x" }, "history.retention.schedule"},
		{"empty listen", func(c *Config) { c.Server.ListenAddress = "" }, "server.listen_address"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"buckets order", func(c *Config) { c.Telemetry.Metrics.DurationBuckets = []float64{1, 0.5} }, "telemetry.metrics.duration_buckets"},
		{"tracing sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"tracing ratio", func(c *Config) {
			c.Telemetry.Tracing.Sampler = "ratio"
			c.Telemetry.Tracing.SampleRatio = 1.5
		}, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			var verr ValidationError
			if !errors.As(Validate(cfg), &verr) {
				t.Fatal("expected ValidationError")
			}
			if len(verr.Errors) != 1 || verr.Errors[0].Field != tt.field {
				t.Errorf("expected single error on %q, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_RemoteMode(t *testing.T) {
	cfg := NewDefault()
	cfg.Mode = "remote"
	if Validate(cfg) == nil {
		t.Fatal("remote mode without base URL should fail")
	}

	cfg.Source.BaseURL = "http://localhost:5000"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}
