package netconf

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/vishvananda/netlink"
)

// Netlink programs addresses and routes through rtnetlink.
type Netlink struct{}

var _ Configurator = Netlink{}

// AddAddress adds or replaces the address on the interface.
func (Netlink) AddAddress(_ context.Context, iface, ip string, prefixLen int, broadcast string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("looking up interface %s: %w", iface, err)
	}
	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", ip, prefixLen))
	if err != nil {
		return fmt.Errorf("parsing address %s/%d: %w", ip, prefixLen, err)
	}
	if broadcast != "" {
		bcast := net.ParseIP(broadcast)
		if bcast == nil {
			return fmt.Errorf("parsing broadcast address %q", broadcast)
		}
		addr.Broadcast = bcast
	}
	if err := netlink.AddrReplace(link, addr); err != nil {
		return fmt.Errorf("adding %s/%d to %s: %w", ip, prefixLen, iface, err)
	}
	return nil
}

// RemoveAddress deletes the address from the interface.
func (Netlink) RemoveAddress(_ context.Context, iface, ip string, prefixLen int) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("looking up interface %s: %w", iface, err)
	}
	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", ip, prefixLen))
	if err != nil {
		return fmt.Errorf("parsing address %s/%d: %w", ip, prefixLen, err)
	}
	if err := netlink.AddrDel(link, addr); err != nil {
		return fmt.Errorf("removing %s/%d from %s: %w", ip, prefixLen, iface, err)
	}
	return nil
}

// ReplaceDefaultRoute points the default route at the gateway.
func (Netlink) ReplaceDefaultRoute(_ context.Context, iface, gateway string) error {
	route, err := defaultRoute(iface, gateway)
	if err != nil {
		return err
	}
	if err := netlink.RouteReplace(route); err != nil {
		return fmt.Errorf("replacing default route via %s: %w", gateway, err)
	}
	return nil
}

// RemoveDefaultRoute deletes the default route through the gateway.
func (Netlink) RemoveDefaultRoute(_ context.Context, iface, gateway string) error {
	route, err := defaultRoute(iface, gateway)
	if err != nil {
		return err
	}
	if err := netlink.RouteDel(route); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return ErrRouteGone
		}
		return fmt.Errorf("removing default route via %s: %w", gateway, err)
	}
	return nil
}

func defaultRoute(iface, gateway string) (*netlink.Route, error) {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return nil, fmt.Errorf("looking up interface %s: %w", iface, err)
	}
	gw := net.ParseIP(gateway)
	if gw == nil {
		return nil, fmt.Errorf("parsing gateway address %q", gateway)
	}
	// Dst nil means 0.0.0.0/0.
	return &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gw,
	}, nil
}
