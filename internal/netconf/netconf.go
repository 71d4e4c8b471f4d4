// Package netconf applies lease-derived network configuration to interfaces.
package netconf

import (
	"context"
	"errors"
)

// ErrRouteGone is returned by RemoveDefaultRoute when the route does not
// exist, so callers can tell an expected race from a real failure.
var ErrRouteGone = errors.New("route does not exist")

// Configurator is the link-configuration capability consumed by the built-in
// hooks. Implementations must be safe for use from concurrently running
// hooks.
type Configurator interface {
	// AddAddress adds or replaces ip/prefixLen on the named interface.
	// broadcast may be empty when the lease carries no broadcast address.
	AddAddress(ctx context.Context, iface, ip string, prefixLen int, broadcast string) error

	// RemoveAddress deletes ip/prefixLen from the named interface.
	RemoveAddress(ctx context.Context, iface, ip string, prefixLen int) error

	// ReplaceDefaultRoute points the default route at gateway through the
	// named interface.
	ReplaceDefaultRoute(ctx context.Context, iface, gateway string) error

	// RemoveDefaultRoute deletes the default route through the named
	// interface. Returns ErrRouteGone when it was already absent.
	RemoveDefaultRoute(ctx context.Context, iface, gateway string) error
}
