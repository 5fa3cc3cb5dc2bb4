package model

//
// Network extensions
//

import (
	"context"
	"time"
)

// Resolver resolves a domain name to IPv4 addresses.
type Resolver interface {
	// LookupA returns the IPv4 addresses of domain.
	LookupA(ctx context.Context, domain string) ([]string, error)

	// Network returns the resolver type (e.g., "system", "udp").
	Network() string

	// Address returns the resolver address, if any.
	Address() string
}

// Pinger measures the round-trip time towards an IP address.
type Pinger interface {
	// Ping performs a single round trip towards ip. The context
	// deadline bounds the operation.
	Ping(ctx context.Context, ip string) (time.Duration, error)
}
