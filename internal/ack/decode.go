package ack

import (
	"encoding/binary"
	"net"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// optionDecoders maps each option the engine consumes to its wire decoder.
// Decoders return ok=false when the packet does not carry the option, so the
// resulting Ack only holds options the server actually sent.
var optionDecoders = map[Option]func(d *dhcpv4.DHCPv4) (any, bool){
	OptionMessageType: func(d *dhcpv4.DHCPv4) (any, bool) {
		return int(d.MessageType()), d.Options.Get(dhcpv4.OptionDHCPMessageType) != nil
	},
	OptionSubnetMask: func(d *dhcpv4.DHCPv4) (any, bool) {
		m := d.SubnetMask()
		if m == nil {
			return nil, false
		}
		return net.IP(m).String(), true
	},
	OptionRouter: func(d *dhcpv4.DHCPv4) (any, bool) {
		return ipStrings(d.Router()), d.Options.Get(dhcpv4.OptionRouter) != nil
	},
	OptionNameServer: func(d *dhcpv4.DHCPv4) (any, bool) {
		return ipStrings(d.DNS()), d.Options.Get(dhcpv4.OptionDomainNameServer) != nil
	},
	OptionDomainName: func(d *dhcpv4.DHCPv4) (any, bool) {
		s := d.DomainName()
		return s, s != ""
	},
	OptionInterfaceMTU: func(d *dhcpv4.DHCPv4) (any, bool) {
		v, err := dhcpv4.GetUint16(dhcpv4.OptionInterfaceMTU, d.Options)
		if err != nil {
			return nil, false
		}
		return int(v), true
	},
	OptionBroadcastAddress: func(d *dhcpv4.DHCPv4) (any, bool) {
		ip := d.BroadcastAddress()
		if ip == nil {
			return nil, false
		}
		return ip.String(), true
	},
	OptionServerID: func(d *dhcpv4.DHCPv4) (any, bool) {
		ip := d.ServerIdentifier()
		if ip == nil {
			return nil, false
		}
		return ip.String(), true
	},
	OptionLeaseTime: func(d *dhcpv4.DHCPv4) (any, bool) {
		if d.Options.Get(dhcpv4.OptionIPAddressLeaseTime) == nil {
			return nil, false
		}
		return int(d.IPAddressLeaseTime(0).Seconds()), true
	},
	OptionRenewalTime: func(d *dhcpv4.DHCPv4) (any, bool) {
		if d.Options.Get(dhcpv4.OptionRenewTimeValue) == nil {
			return nil, false
		}
		return int(d.IPAddressRenewalTime(0).Seconds()), true
	},
	OptionRebindingTime: func(d *dhcpv4.DHCPv4) (any, bool) {
		if d.Options.Get(dhcpv4.OptionRebindingTimeValue) == nil {
			return nil, false
		}
		return int(d.IPAddressRebindingTime(0).Seconds()), true
	},
	OptionDomainSearch: func(d *dhcpv4.DHCPv4) (any, bool) {
		l := d.DomainSearch()
		if l == nil {
			return nil, false
		}
		return l.Labels, true
	},
}

// FromPacket builds an Ack from a decoded DHCPv4 message.
func FromPacket(d *dhcpv4.DHCPv4) *Ack {
	opts := make(map[Option]any, len(optionDecoders))
	for opt, decode := range optionDecoders {
		if v, ok := decode(d); ok {
			opts[opt] = v
		}
	}
	return &Ack{
		Xid:       binary.BigEndian.Uint32(d.TransactionID[:]),
		ClientIP:  d.YourIPAddr.String(),
		ServerIP:  d.ServerIPAddr.String(),
		ClientMAC: d.ClientHWAddr.String(),
		Options:   opts,
	}
}

func ipStrings(ips []net.IP) []string {
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out
}
