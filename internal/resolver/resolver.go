// Package resolver resolves hostnames to IPv4 addresses using the
// system resolver and plain DNS-over-UDP servers, and merges the results
// of several concurrent resolution attempts.
package resolver

import (
	"errors"
	"fmt"
	"net/netip"
)

// These errors are returned by [*UDPResolver]. Their suffix matches the
// equivalent unexported errors used by the Go standard library.
var (
	ErrOODNSNoSuchHost  = errors.New("resolver: no such host")
	ErrOODNSRefused     = errors.New("resolver: refused")
	ErrOODNSServfail    = errors.New("resolver: server failure")
	ErrOODNSMisbehaving = errors.New("resolver: server misbehaving")
	ErrOODNSNoAnswer    = errors.New("resolver: no answer from DNS server")
)

// ErrDNSReplyWithWrongQueryID indicates we have got a DNS reply with the wrong queryID.
var ErrDNSReplyWithWrongQueryID = errors.New("resolver: reply with wrong query ID")

// ErrDNSIsQuery indicates that we received a query instead of a response.
var ErrDNSIsQuery = errors.New("resolver: expected response but received query")

// ErrLookupTimeout indicates that a resolution attempt did not complete in time.
var ErrLookupTimeout = errors.New("resolver: lookup timed out")

// filterIPv4 keeps the unique IPv4 addresses in addrs, preserving order.
func filterIPv4(addrs []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range addrs {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			continue
		}
		addr = addr.Unmap()
		if !addr.Is4() {
			continue
		}
		v := addr.String()
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// describe returns a short human readable description of a resolver.
func describe(network, address string) string {
	if address == "" {
		return fmt.Sprintf("<%s>", network)
	}
	return fmt.Sprintf("<%s %s>", network, address)
}
