package hooks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/athena-dhcpd/athena-dhclient/internal/ack"
	"github.com/athena-dhcpd/athena-dhclient/internal/lease"
	"github.com/athena-dhcpd/athena-dhclient/internal/netconf"
)

// ConfigureIP returns the hook that adds the lease address to its interface.
// Register RemoveIP alongside it for cleanup. A lease without a broadcast
// address is fine; one without a subnet mask is not.
func ConfigureIP(nc netconf.Configurator, logger *slog.Logger) Hook {
	return Hook{
		Name: "configure_ip",
		Func: func(ctx context.Context, l *lease.Lease) error {
			mask, err := l.SubnetMask()
			if err != nil {
				return err
			}
			prefixLen, err := l.PrefixLen()
			if err != nil {
				return err
			}
			logger.Info("adding address",
				"ip", l.IP(),
				"mask", mask,
				"interface", l.Interface)
			bcast, err := l.BroadcastAddress()
			if err != nil {
				var missing *ack.MissingOptionError
				if !errors.As(err, &missing) {
					return err
				}
				logger.Debug("lease has no broadcast address", "error", err)
				bcast = ""
			}
			return nc.AddAddress(ctx, l.Interface, l.IP(), prefixLen, bcast)
		},
	}
}

// RemoveIP returns the hook that removes the lease address from its
// interface.
func RemoveIP(nc netconf.Configurator, logger *slog.Logger) Hook {
	return Hook{
		Name: "remove_ip",
		Func: func(ctx context.Context, l *lease.Lease) error {
			mask, err := l.SubnetMask()
			if err != nil {
				return err
			}
			prefixLen, err := l.PrefixLen()
			if err != nil {
				return err
			}
			logger.Info("removing address",
				"ip", l.IP(),
				"mask", mask,
				"interface", l.Interface)
			return nc.RemoveAddress(ctx, l.Interface, l.IP(), prefixLen)
		},
	}
}

// AddDefaultGateway returns the hook that installs the lease's first router
// as the default route. Register RemoveDefaultGateway alongside it for
// cleanup.
func AddDefaultGateway(nc netconf.Configurator, logger *slog.Logger) Hook {
	return Hook{
		Name: "add_default_gateway",
		Func: func(ctx context.Context, l *lease.Lease) error {
			gw, err := l.DefaultGateway()
			if err != nil {
				return err
			}
			logger.Info("adding default route",
				"gateway", gw,
				"interface", l.Interface)
			return nc.ReplaceDefaultRoute(ctx, l.Interface, gw)
		},
	}
}

// RemoveDefaultGateway returns the hook that removes the default route set
// from the lease. Another process racing us to remove it is expected and not
// an error.
func RemoveDefaultGateway(nc netconf.Configurator, logger *slog.Logger) Hook {
	return Hook{
		Name: "remove_default_gateway",
		Func: func(ctx context.Context, l *lease.Lease) error {
			gw, err := l.DefaultGateway()
			if err != nil {
				return err
			}
			logger.Info("removing default route",
				"gateway", gw,
				"interface", l.Interface)
			err = nc.RemoveDefaultRoute(ctx, l.Interface, gw)
			if errors.Is(err, netconf.ErrRouteGone) {
				logger.Info("default route was already removed by another process",
					"gateway", gw,
					"interface", l.Interface)
				return nil
			}
			return err
		},
	}
}

// RegisterDefaults wires the built-in hooks into the registry. enabled
// filters them by name; nil or empty enables everything.
func RegisterDefaults(reg *Registry, nc netconf.Configurator, logger *slog.Logger, enabled []string) {
	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		want[name] = true
	}
	register := func(t Trigger, h Hook) {
		if len(want) > 0 && !want[h.Name] {
			return
		}
		reg.Register(t, h)
	}

	register(TriggerBound, ConfigureIP(nc, logger))
	register(TriggerBound, AddDefaultGateway(nc, logger))
	register(TriggerBound, CheckNameServers(logger))
	for _, t := range []Trigger{TriggerUnbound, TriggerExpired} {
		register(t, RemoveIP(nc, logger))
		register(t, RemoveDefaultGateway(nc, logger))
	}
}
