package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[client]
interface = "eth0"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Client.Interface != "eth0" {
		t.Errorf("interface = %q", cfg.Client.Interface)
	}
	if cfg.Client.LogLevel != DefaultLogLevel {
		t.Errorf("log_level default = %q, want %q", cfg.Client.LogLevel, DefaultLogLevel)
	}
	if cfg.Client.LeaseStorage != DefaultLeaseStorage {
		t.Errorf("lease_storage default = %q, want %q", cfg.Client.LeaseStorage, DefaultLeaseStorage)
	}
	if cfg.HookTimeout() != DefaultHookTimeout {
		t.Errorf("hook timeout default = %v, want %v", cfg.HookTimeout(), DefaultHookTimeout)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[client]
interface = "wlan0"
log_level = "debug"
lease_storage = "bolt"
lease_db = "/tmp/leases.db"

[hooks]
timeout = "5s"
enabled = ["configure_ip", "add_default_gateway"]

[metrics]
enabled = true
listen_address = "127.0.0.1:9999"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Client.LeaseStorage != "bolt" || cfg.Client.LeaseDB != "/tmp/leases.db" {
		t.Errorf("storage config = %q/%q", cfg.Client.LeaseStorage, cfg.Client.LeaseDB)
	}
	if cfg.HookTimeout() != 5*time.Second {
		t.Errorf("hook timeout = %v, want 5s", cfg.HookTimeout())
	}
	if len(cfg.Hooks.Enabled) != 2 {
		t.Errorf("enabled hooks = %v", cfg.Hooks.Enabled)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("metrics config = %+v", cfg.Metrics)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing interface",
			`[client]
log_level = "info"`,
			"client.interface is required",
		},
		{
			"bad storage",
			`[client]
interface = "eth0"
lease_storage = "postgres"`,
			"lease_storage",
		},
		{
			"bad timeout",
			`[client]
interface = "eth0"
[hooks]
timeout = "soon"`,
			"hooks.timeout",
		},
		{
			"bad toml",
			`[client`,
			"parsing config file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
