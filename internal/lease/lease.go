// Package lease tracks the RFC 2131 timing contract of a DHCP lease and
// persists it across client restarts.
package lease

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/athena-dhcpd/athena-dhclient/internal/ack"
)

// ErrNoRouters is returned by DefaultGateway when the router option is
// present but resolved to an empty list.
var ErrNoRouters = errors.New("router option is present but empty")

// Lease binds the acknowledgement that granted it to the interface it applies
// to. All four fields are set at construction and never mutated; everything
// else is derived on demand from the ack.
type Lease struct {
	// Ack is the DHCPACK sent by the server which allocated this lease.
	Ack *ack.Ack `json:"ack"`
	// Interface is the name of the interface the lease was requested for.
	Interface string `json:"interface"`
	// ServerMAC is the hardware address of the allocating server.
	ServerMAC string `json:"server_mac"`
	// Obtained is the epoch timestamp, in seconds, of when the lease was
	// received.
	Obtained float64 `json:"obtained"`
}

// New builds a lease obtained now.
func New(a *ack.Ack, iface, serverMAC string) *Lease {
	return &Lease{
		Ack:       a,
		Interface: iface,
		ServerMAC: serverMAC,
		Obtained:  now(),
	}
}

func now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// secondsUntil returns the seconds left until the timer carried by the given
// option elapses, counted from when the lease was obtained. ok is false when
// the ack does not carry the option.
func (l *Lease) secondsUntil(opt ack.Option) (float64, bool) {
	delta, err := l.Ack.Int(opt)
	if err != nil {
		return 0, false
	}
	return l.Obtained + float64(delta) - now(), true
}

// ExpirationIn returns the seconds before the lease expires, from the
// lease_time option. Negative when past due; ok is false when the server did
// not give an expiration time.
func (l *Lease) ExpirationIn() (float64, bool) {
	return l.secondsUntil(ack.OptionLeaseTime)
}

// Expired reports whether the lease's expiration is in the past. A lease
// without a lease_time never expires.
//
// For a lease loaded from disk this may be wrong if the clock was adjusted
// since it was written; the worst case is a REQUEST answered by a NAK and a
// restart from scratch.
func (l *Lease) Expired() bool {
	e, ok := l.ExpirationIn()
	return ok && e <= 0
}

// RenewalIn returns the seconds before the lease should be renewed, from the
// renewal_time option. Without one, RFC 2131 §4.4.5 wants a fuzzy value
// around 0.5 of the lease duration.
func (l *Lease) RenewalIn() (float64, bool) {
	return l.timerOrFuzzy(ack.OptionRenewalTime, 0.4, 0.6)
}

// RebindingIn returns the seconds before the lease should be rebound, from
// the rebinding_time option. Without one, RFC 2131 §4.4.5 wants a fuzzy
// value around 0.875 of the lease duration.
func (l *Lease) RebindingIn() (float64, bool) {
	return l.timerOrFuzzy(ack.OptionRebindingTime, 0.75, 0.90)
}

// timerOrFuzzy falls back to a jittered fraction of the lease duration when
// the explicit timer option is absent. The jitter is redrawn on every call on
// purpose: callers computing "time until next attempt" at different moments
// get independently fuzzed values. When the ack carries no lease_time either,
// ok is false and the client never renews on its own.
func (l *Lease) timerOrFuzzy(opt ack.Option, lo, hi float64) (float64, bool) {
	if v, ok := l.secondsUntil(opt); ok {
		return v, true
	}
	exp, ok := l.ExpirationIn()
	if !ok {
		return 0, false
	}
	return exp * (lo + rand.Float64()*(hi-lo)), true
}

// IP returns the address assigned to the client (yiaddr).
func (l *Lease) IP() string {
	return l.Ack.ClientIP
}

// SubnetMask returns the mask assigned to the client, in dotted quad form.
func (l *Lease) SubnetMask() (string, error) {
	return l.Ack.String(ack.OptionSubnetMask)
}

// PrefixLen returns the length of the subnet mask assigned to the client.
func (l *Lease) PrefixLen() (int, error) {
	mask, err := l.SubnetMask()
	if err != nil {
		return 0, err
	}
	ip := net.ParseIP(mask)
	if ip = ip.To4(); ip == nil {
		return 0, fmt.Errorf("invalid subnet mask %q", mask)
	}
	ones, bits := net.IPMask(ip).Size()
	if ones == 0 && bits == 0 {
		return 0, fmt.Errorf("non-contiguous subnet mask %q", mask)
	}
	return ones, nil
}

// BroadcastAddress returns the broadcast address for this network.
func (l *Lease) BroadcastAddress() (string, error) {
	return l.Ack.String(ack.OptionBroadcastAddress)
}

// MTU returns the MTU for this interface.
func (l *Lease) MTU() (int, error) {
	return l.Ack.Int(ack.OptionInterfaceMTU)
}

// NameServers returns the DNS servers for this lease, in server order.
func (l *Lease) NameServers() ([]string, error) {
	return l.Ack.Strings(ack.OptionNameServer)
}

// ServerID returns the IP address of the server which allocated this lease.
func (l *Lease) ServerID() (string, error) {
	return l.Ack.String(ack.OptionServerID)
}

// DomainName returns the domain name for this lease.
func (l *Lease) DomainName() (string, error) {
	return l.Ack.String(ack.OptionDomainName)
}

// DomainSearch returns the domain search list for this lease.
func (l *Lease) DomainSearch() ([]string, error) {
	return l.Ack.Strings(ack.OptionDomainSearch)
}

// Routers returns the routers for this lease, most prioritary first.
func (l *Lease) Routers() ([]string, error) {
	return l.Ack.Strings(ack.OptionRouter)
}

// DefaultGateway returns the first router of the lease. It propagates the
// missing-option error when the ack has no router option, and ErrNoRouters
// when the option decoded to an empty list.
func (l *Lease) DefaultGateway() (string, error) {
	routers, err := l.Routers()
	if err != nil {
		return "", err
	}
	if len(routers) == 0 {
		return "", ErrNoRouters
	}
	return routers[0], nil
}
