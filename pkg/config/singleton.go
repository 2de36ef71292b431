package config

import (
	"fmt"
	"sync/atomic"
)

// current holds the process-wide configuration.
var current atomic.Pointer[Config]

// GetConfig returns the process-wide configuration, or nil before SetConfig
// or a successful ReloadConfig.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ReloadConfig loads path again with environment overrides and swaps it in.
// On failure the existing configuration is kept.
func ReloadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	current.Store(cfg)
	return cfg, nil
}
