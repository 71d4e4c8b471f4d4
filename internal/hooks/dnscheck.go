package hooks

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/athena-dhcpd/athena-dhclient/internal/ack"
	"github.com/athena-dhcpd/athena-dhclient/internal/lease"
)

const dnsProbeTimeout = 2 * time.Second

// CheckNameServers returns the hook that probes each name server in the
// lease with a SOA query for the lease domain. An unreachable server is
// worth a warning, never a failure, since resolution may still work through
// the others.
func CheckNameServers(logger *slog.Logger) Hook {
	return Hook{
		Name: "check_name_servers",
		Func: func(ctx context.Context, l *lease.Lease) error {
			servers, err := l.NameServers()
			if err != nil {
				var missing *ack.MissingOptionError
				if errors.As(err, &missing) {
					logger.Debug("lease has no name servers", "error", err)
					return nil
				}
				return err
			}

			zone := "."
			if domain, err := l.DomainName(); err == nil {
				zone = dns.Fqdn(domain)
			}

			c := &dns.Client{Timeout: dnsProbeTimeout}
			m := new(dns.Msg)
			m.SetQuestion(zone, dns.TypeSOA)

			for _, server := range servers {
				_, rtt, err := c.ExchangeContext(ctx, m, net.JoinHostPort(server, "53"))
				if err != nil {
					logger.Warn("name server did not respond",
						"server", server,
						"zone", zone,
						"error", err)
					continue
				}
				logger.Debug("name server reachable",
					"server", server,
					"rtt", rtt.String())
			}
			return nil
		},
	}
}
