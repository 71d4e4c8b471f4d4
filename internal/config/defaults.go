package config

import "time"

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultLeaseStorage  = "file"
	DefaultLeaseDir      = "."
	DefaultLeaseDB       = "/var/lib/athena-dhclient/leases.db"
	DefaultHookTimeout   = 30 * time.Second
	DefaultMetricsListen = "127.0.0.1:9567"
)

// applyDefaults fills in default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Client.LogLevel == "" {
		cfg.Client.LogLevel = DefaultLogLevel
	}
	if cfg.Client.LeaseStorage == "" {
		cfg.Client.LeaseStorage = DefaultLeaseStorage
	}
	if cfg.Client.LeaseDir == "" {
		cfg.Client.LeaseDir = DefaultLeaseDir
	}
	if cfg.Client.LeaseDB == "" {
		cfg.Client.LeaseDB = DefaultLeaseDB
	}
	if cfg.Hooks.Timeout == "" {
		cfg.Hooks.Timeout = DefaultHookTimeout.String()
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListen
	}
}
