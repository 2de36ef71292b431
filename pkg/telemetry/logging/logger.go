package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler built by New.
type Config struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string

	// Format is json or text ("console" is accepted for text). Empty means json.
	Format string

	AddSource bool

	// RedactSecrets masks credential-looking attributes.
	RedactSecrets bool

	// Writer defaults to os.Stderr.
	Writer io.Writer

	// LevelVar, when set, is set to Level and controls the handler, so the
	// level can be changed after New returns.
	LevelVar *slog.LevelVar
}

// New builds a logger from cfg. Records logged with a context carry the
// request and export fields stored in it.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	var leveler slog.Leveler = level
	if cfg.LevelVar != nil {
		cfg.LevelVar.Set(level)
		leveler = cfg.LevelVar
	}

	opts := &slog.HandlerOptions{Level: leveler, AddSource: cfg.AddSource}
	if cfg.RedactSecrets {
		opts.ReplaceAttr = NewRedactor().ReplaceAttr
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text", "console":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: unknown format %q", cfg.Format)
	}

	return slog.New(&contextHandler{next: h}), nil
}

// ParseLevel accepts the slog level names in any case, plus "warning".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
