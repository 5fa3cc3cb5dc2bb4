package prober

//
// ICMP echo pinger
//

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// ErrICMPUnavailable indicates that we cannot open an ICMP socket,
// usually because of missing privileges.
var ErrICMPUnavailable = errors.New("prober: ICMP sockets unavailable")

// protocolICMP is the IANA protocol number of ICMP for IPv4.
const protocolICMP = 1

// ICMPPinger sends ICMP echo requests. The zero value is ready to use: it
// tries unprivileged datagram-oriented ICMP sockets first and, when the
// kernel refuses them, raw ICMP sockets, which stay selected afterwards.
type ICMPPinger struct {
	// Privileged OPTIONALLY forces raw ICMP sockets.
	Privileged bool

	// listen is the OPTIONAL function opening sockets; nil means icmp.ListenPacket.
	listen func(network, address string) (*icmp.PacketConn, error)

	raw atomic.Bool
	seq atomic.Uint32
}

const (
	networkUnprivileged = "udp4"
	networkRaw          = "ip4:icmp"
)

// open returns an ICMP socket and whether it is a raw socket.
func (p *ICMPPinger) open() (*icmp.PacketConn, bool, error) {
	listen := p.listen
	if listen == nil {
		listen = icmp.ListenPacket
	}
	if !p.Privileged && !p.raw.Load() {
		conn, err := listen(networkUnprivileged, "0.0.0.0")
		if err == nil {
			return conn, false, nil
		}
		rawConn, rawErr := listen(networkRaw, "0.0.0.0")
		if rawErr != nil {
			return nil, false, fmt.Errorf("%w: %s; %s", ErrICMPUnavailable, err.Error(), rawErr.Error())
		}
		p.raw.Store(true)
		return rawConn, true, nil
	}
	conn, err := listen(networkRaw, "0.0.0.0")
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", ErrICMPUnavailable, err.Error())
	}
	return conn, true, nil
}

var _ model.Pinger = &ICMPPinger{}

// Ping implements model.Pinger.
func (p *ICMPPinger) Ping(ctx context.Context, ip string) (time.Duration, error) {
	dst := net.ParseIP(ip).To4()
	if dst == nil {
		return 0, fmt.Errorf("prober: not an IPv4 address: %q", ip)
	}

	conn, raw, err := p.open()
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	peer := net.Addr(&net.UDPAddr{IP: dst})
	if raw {
		peer = &net.IPAddr{IP: dst}
	}

	// unblock the read when the context is done
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	id, seq := os.Getpid()&0xffff, int(p.seq.Add(1)&0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte("fasthosts-ping")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if _, err := conn.WriteTo(wb, peer); err != nil {
		return 0, err
	}
	rb := make([]byte, 1500)
	for {
		n, from, err := conn.ReadFrom(rb)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ErrTimeout
			}
			return 0, err
		}
		if !isEchoReply(rb[:n], from, dst, raw, id, seq) {
			continue
		}
		return time.Since(start), nil
	}
}

// isEchoReply returns whether data is the echo reply we are waiting for. The
// kernel rewrites the identifier of unprivileged sockets so we only check it
// when using raw sockets.
func isEchoReply(data []byte, from net.Addr, dst net.IP, raw bool, id, seq int) bool {
	reply, err := icmp.ParseMessage(protocolICMP, data)
	if err != nil || reply.Type != ipv4.ICMPTypeEchoReply {
		return false
	}
	echo, ok := reply.Body.(*icmp.Echo)
	if !ok || echo.Seq != seq || (raw && echo.ID != id) {
		return false
	}
	return addrIP(from).Equal(dst)
}

func addrIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.UDPAddr:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}
