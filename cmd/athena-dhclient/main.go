// athena-dhclient — DHCP client lease engine: RFC 2131 lease timers plus
// isolated lifecycle hooks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athena-dhcpd/athena-dhclient/internal/config"
	"github.com/athena-dhcpd/athena-dhclient/internal/hooks"
	"github.com/athena-dhcpd/athena-dhclient/internal/lease"
	"github.com/athena-dhcpd/athena-dhclient/internal/logging"
	"github.com/athena-dhcpd/athena-dhclient/internal/metrics"
	"github.com/athena-dhcpd/athena-dhclient/internal/netconf"
)

func main() {
	configPath := flag.String("config", "/etc/athena-dhclient/config.toml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Client.LogLevel, os.Stdout)
	logger.Info("athena-dhclient starting",
		"interface", cfg.Client.Interface,
		"lease_storage", cfg.Client.LeaseStorage)

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listener started", "addr", cfg.Metrics.ListenAddress)
			if err := http.ListenAndServe(cfg.Metrics.ListenAddress, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	storage, closeStorage, err := openStorage(cfg, logger)
	if err != nil {
		logger.Error("opening lease storage", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	registry := hooks.NewRegistry()
	hooks.RegisterDefaults(registry, netconf.Netlink{}, logger, cfg.Hooks.Enabled)
	runner := hooks.NewRunner(cfg.HookTimeout(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := storage.Load(cfg.Client.Interface)
	if l == nil {
		logger.Info("no usable lease, nothing to apply",
			"interface", cfg.Client.Interface)
		return
	}

	if l.Expired() {
		logger.Info("persisted lease has expired",
			"interface", cfg.Client.Interface)
		runner.Run(ctx, registry.HooksFor(hooks.TriggerExpired), l, hooks.TriggerExpired)
		return
	}

	reportTimers(l, logger)
	runner.Run(ctx, registry.HooksFor(hooks.TriggerBound), l, hooks.TriggerBound)

	// Keep the gauges fresh until shutdown or expiry.
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down, releasing lease configuration")
			// The parent ctx is already cancelled; give the unbound hooks
			// their own grace period.
			unbindCtx, cancel := context.WithTimeout(context.Background(), cfg.HookTimeout())
			runner.Run(unbindCtx, registry.HooksFor(hooks.TriggerUnbound), l, hooks.TriggerUnbound)
			cancel()
			return
		case <-ticker.C:
			if l.Expired() {
				logger.Warn("lease expired", "interface", l.Interface)
				runner.Run(ctx, registry.HooksFor(hooks.TriggerExpired), l, hooks.TriggerExpired)
				return
			}
			reportTimers(l, logger)
		}
	}
}

// openStorage picks the configured persistence strategy.
func openStorage(cfg *config.Config, logger *slog.Logger) (lease.Storage, func(), error) {
	switch cfg.Client.LeaseStorage {
	case "file":
		return lease.NewFileStorage(cfg.Client.LeaseDir, logger), func() {}, nil
	case "bolt":
		s, err := lease.NewBoltStorage(cfg.Client.LeaseDB, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return &lease.DiscardStorage{Out: os.Stdout}, func() {}, nil
	}
}

func reportTimers(l *lease.Lease, logger *slog.Logger) {
	if exp, ok := l.ExpirationIn(); ok {
		metrics.LeaseExpirySeconds.Set(exp)
		logger.Debug("lease expiration", "seconds", exp)
	}
	if renew, ok := l.RenewalIn(); ok {
		metrics.LeaseRenewalSeconds.Set(renew)
		logger.Debug("lease renewal due", "seconds", renew)
	}
}
