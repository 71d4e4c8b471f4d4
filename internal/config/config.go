// Package config handles TOML configuration parsing and validation for athena-dhclient.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for athena-dhclient.
type Config struct {
	Client  ClientConfig  `toml:"client"`
	Hooks   HooksConfig   `toml:"hooks"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ClientConfig holds core client settings.
type ClientConfig struct {
	Interface    string `toml:"interface"`
	LogLevel     string `toml:"log_level"`
	LeaseStorage string `toml:"lease_storage"` // "file", "bolt" or "none"
	LeaseDir     string `toml:"lease_dir"`
	LeaseDB      string `toml:"lease_db"`
}

// HooksConfig holds hook execution settings.
type HooksConfig struct {
	Timeout string `toml:"timeout"`
	// Enabled filters the built-in hooks by name; empty enables all of them.
	Enabled []string `toml:"enabled"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled       bool   `toml:"enabled"`
	ListenAddress string `toml:"listen_address"`
}

// Load reads and parses a TOML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// validate checks the config for errors.
func validate(cfg *Config) error {
	if cfg.Client.Interface == "" {
		return fmt.Errorf("client.interface is required")
	}

	switch cfg.Client.LeaseStorage {
	case "file", "bolt", "none":
	default:
		return fmt.Errorf("client.lease_storage must be one of file, bolt, none; got %q",
			cfg.Client.LeaseStorage)
	}

	if _, err := time.ParseDuration(cfg.Hooks.Timeout); err != nil {
		return fmt.Errorf("hooks.timeout %q: %w", cfg.Hooks.Timeout, err)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics.listen_address is required when metrics are enabled")
	}

	return nil
}

// HookTimeout returns the parsed per-hook timeout. Validation guarantees the
// string parses.
func (c *Config) HookTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Hooks.Timeout)
	return d
}
