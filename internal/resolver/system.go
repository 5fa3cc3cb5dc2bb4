package resolver

//
// System resolver
//

import (
	"context"
	"net"

	"github.com/fasthosts/fasthosts/internal/logx"
	"github.com/fasthosts/fasthosts/internal/model"
)

// SystemResolver uses the operating system resolver restricted to IPv4.
type SystemResolver struct {
	// Logger is the MANDATORY logger.
	Logger model.Logger

	// lookupIP is the function used to resolve names.
	lookupIP func(ctx context.Context, network, host string) ([]net.IP, error)
}

var _ model.Resolver = &SystemResolver{}

// NewSystemResolver creates a [*SystemResolver].
func NewSystemResolver(logger model.Logger) *SystemResolver {
	return &SystemResolver{
		Logger:   model.ValidLoggerOrDefault(logger),
		lookupIP: net.DefaultResolver.LookupIP,
	}
}

// LookupA implements model.Resolver.
func (r *SystemResolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	ol := logx.NewOperationLogger(r.Logger, "resolver: LookupA %s using %s", domain, describe(r.Network(), r.Address()))
	ips, err := r.lookupIP(ctx, "ip4", domain)
	if err != nil {
		ol.Stop(err)
		return nil, err
	}
	var addrs []string
	for _, ip := range ips {
		addrs = append(addrs, ip.String())
	}
	addrs = filterIPv4(addrs)
	if len(addrs) <= 0 {
		ol.Stop(ErrOODNSNoAnswer)
		return nil, ErrOODNSNoAnswer
	}
	ol.Stop(addrs)
	return addrs, nil
}

// Network implements model.Resolver.
func (r *SystemResolver) Network() string {
	return "system"
}

// Address implements model.Resolver.
func (r *SystemResolver) Address() string {
	return ""
}
