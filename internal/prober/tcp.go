package prober

//
// TCP connect pinger
//

import (
	"context"
	"net"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
)

// DefaultTCPPort is the port used by [TCPPinger] by default.
const DefaultTCPPort = "443"

// TCPPinger measures the time to establish a TCP connection.
type TCPPinger struct {
	// Dialer is the MANDATORY dialer.
	Dialer *net.Dialer

	// Port is the MANDATORY port to connect to.
	Port string
}

var _ model.Pinger = &TCPPinger{}

// NewTCPPinger creates a [*TCPPinger] connecting to [DefaultTCPPort].
func NewTCPPinger() *TCPPinger {
	return &TCPPinger{
		Dialer: &net.Dialer{},
		Port:   DefaultTCPPort,
	}
}

// Ping implements model.Pinger.
func (p *TCPPinger) Ping(ctx context.Context, ip string) (time.Duration, error) {
	start := time.Now()
	conn, err := p.Dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, p.Port))
	if err != nil {
		return 0, err
	}
	rtt := time.Since(start)
	conn.Close()
	return rtt, nil
}
