// Package ack models the decoded DHCP acknowledgement consumed by the lease engine.
//
// The wire codec lives outside this module; an Ack is an opaque snapshot of the
// DHCPACK that allocated a lease, exposing its options as a name-keyed mapping.
package ack

import (
	"encoding/json"
	"fmt"
)

// Option identifies a DHCP option by its lowercase RFC 2132 name.
type Option string

// Options consumed by the lease engine.
const (
	OptionMessageType      Option = "message_type"
	OptionSubnetMask       Option = "subnet_mask"
	OptionRouter           Option = "router"
	OptionNameServer       Option = "name_server"
	OptionDomainName       Option = "domain_name"
	OptionInterfaceMTU     Option = "interface_mtu"
	OptionBroadcastAddress Option = "broadcast_address"
	OptionLeaseTime        Option = "lease_time"
	OptionServerID         Option = "server_id"
	OptionRenewalTime      Option = "renewal_time"
	OptionRebindingTime    Option = "rebinding_time"
	OptionDomainSearch     Option = "domain_search"
)

// MissingOptionError is returned when an option the caller asked for is not
// present in the acknowledgement. It names the exact option so call sites can
// decide per-field how to degrade.
type MissingOptionError struct {
	Option Option
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("lease does not set option %q", string(e.Option))
}

// Ack is a decoded DHCPACK. Immutable once built.
//
// Option values are strings, ints, or string slices — whatever the codec
// produced. The JSON shape matches the persisted lease schema: fixed header
// fields at the top level plus a nested "options" mapping keyed by lowercase
// option name.
type Ack struct {
	Xid       uint32         `json:"xid"`
	ClientIP  string         `json:"yiaddr"`
	ServerIP  string         `json:"siaddr"`
	ClientMAC string         `json:"chaddr"`
	Options   map[Option]any `json:"options"`
}

// Has reports whether the acknowledgement carries the given option.
func (a *Ack) Has(opt Option) bool {
	_, ok := a.Options[opt]
	return ok
}

// Get returns the raw decoded value for an option.
func (a *Ack) Get(opt Option) (any, error) {
	v, ok := a.Options[opt]
	if !ok {
		return nil, &MissingOptionError{Option: opt}
	}
	return v, nil
}

// String returns a string-valued option.
func (a *Ack) String(opt Option) (string, error) {
	v, err := a.Get(opt)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q: expected string, got %T", string(opt), v)
	}
	return s, nil
}

// Int returns an integer-valued option. Values that went through a JSON
// round trip arrive as float64 or json.Number and are converted back.
func (a *Ack) Int(opt Option) (int, error) {
	v, err := a.Get(opt)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint32:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("option %q: %w", string(opt), err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("option %q: expected integer, got %T", string(opt), v)
	}
}

// Strings returns a list-valued option, preserving order. A JSON round trip
// turns []string into []any; both shapes are accepted.
func (a *Ack) Strings(opt Option) ([]string, error) {
	v, err := a.Get(opt)
	if err != nil {
		return nil, err
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("option %q: expected string element, got %T", string(opt), e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("option %q: expected string list, got %T", string(opt), v)
	}
}
