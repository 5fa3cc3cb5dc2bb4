package resolver

//
// DNS-over-UDP resolver
//

import (
	"context"
	"errors"
	"net"

	"github.com/fasthosts/fasthosts/internal/logx"
	"github.com/fasthosts/fasthosts/internal/model"
)

// Dialer creates network connections.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// UDPResolver sends A queries to a DNS server over UDP.
type UDPResolver struct {
	// Endpoint is the MANDATORY server endpoint (e.g., "8.8.8.8:53").
	Endpoint string

	// Dialer is the MANDATORY dialer.
	Dialer Dialer

	// Logger is the MANDATORY logger.
	Logger model.Logger
}

var _ model.Resolver = &UDPResolver{}

// NewUDPResolver creates a [*UDPResolver] for the given server. The
// address may omit the port, in which case we use port 53.
func NewUDPResolver(logger model.Logger, address string) *UDPResolver {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, "53")
	}
	return &UDPResolver{
		Endpoint: address,
		Dialer:   &net.Dialer{},
		Logger:   model.ValidLoggerOrDefault(logger),
	}
}

// LookupA implements model.Resolver.
func (r *UDPResolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	ol := logx.NewOperationLogger(r.Logger, "resolver: LookupA %s using %s", domain, describe(r.Network(), r.Endpoint))
	addrs, err := r.lookupA(ctx, domain)
	if err != nil {
		ol.Stop(err)
		return nil, err
	}
	ol.Stop(addrs)
	return addrs, nil
}

func (r *UDPResolver) lookupA(ctx context.Context, domain string) ([]string, error) {
	query := encodeQuery(domain)
	rawQuery, err := query.Pack()
	if err != nil {
		return nil, err
	}
	return r.roundTrip(ctx, rawQuery, query.Id)
}

// roundTrip sends the query and decodes the first reply carrying the
// expected query ID. Replies with another ID are ignored.
func (r *UDPResolver) roundTrip(ctx context.Context, rawQuery []byte, queryID uint16) ([]string, error) {
	conn, err := r.Dialer.DialContext(ctx, "udp", r.Endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// unblock the read when the context is done
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(rawQuery); err != nil {
		return nil, err
	}
	reply := make([]byte, 1<<16)
	for {
		n, err := conn.Read(reply)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		addrs, err := decodeLookupA(reply[:n], queryID)
		if errors.Is(err, ErrDNSReplyWithWrongQueryID) {
			r.Logger.Debugf("resolver: %s: ignoring reply with wrong query ID", r.Endpoint)
			continue
		}
		return addrs, err
	}
}

// Network implements model.Resolver.
func (r *UDPResolver) Network() string {
	return "udp"
}

// Address implements model.Resolver.
func (r *UDPResolver) Address() string {
	return r.Endpoint
}
