package prober

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/fasthosts/fasthosts/internal/mocks"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/icmp"
)

func TestTCPPinger(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		listener, err := net.Listen("tcp4", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer listener.Close()
		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()
		_, port, _ := net.SplitHostPort(listener.Addr().String())
		p := NewTCPPinger()
		p.Port = port
		rtt, err := p.Ping(context.Background(), "127.0.0.1")
		if err != nil {
			t.Fatal(err)
		}
		if rtt <= 0 {
			t.Fatal("expected positive rtt", rtt)
		}
	})

	t.Run("on failure", func(t *testing.T) {
		listener, err := net.Listen("tcp4", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		_, port, _ := net.SplitHostPort(listener.Addr().String())
		listener.Close()
		p := NewTCPPinger()
		p.Port = port
		if _, err := p.Ping(context.Background(), "127.0.0.1"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestICMPPinger(t *testing.T) {
	t.Run("with an invalid address", func(t *testing.T) {
		p := &ICMPPinger{}
		if _, err := p.Ping(context.Background(), "2001:db8::1"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("falls back to raw sockets and remembers it", func(t *testing.T) {
		var networks []string
		p := &ICMPPinger{
			listen: func(network, address string) (*icmp.PacketConn, error) {
				networks = append(networks, network)
				if network == "udp4" {
					return nil, os.NewSyscallError("socket", syscall.EACCES)
				}
				return nil, nil
			},
		}
		if _, raw, err := p.open(); err != nil || !raw {
			t.Fatal("expected a raw socket", raw, err)
		}
		if _, raw, err := p.open(); err != nil || !raw {
			t.Fatal("expected a raw socket", raw, err)
		}
		if diff := cmp.Diff([]string{"udp4", "ip4:icmp", "ip4:icmp"}, networks); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("prefers unprivileged sockets", func(t *testing.T) {
		var networks []string
		p := &ICMPPinger{
			listen: func(network, address string) (*icmp.PacketConn, error) {
				networks = append(networks, network)
				return nil, nil
			},
		}
		if _, raw, err := p.open(); err != nil || raw {
			t.Fatal("expected an unprivileged socket", raw, err)
		}
		if diff := cmp.Diff([]string{"udp4"}, networks); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("when no socket can be opened", func(t *testing.T) {
		p := &ICMPPinger{
			listen: func(network, address string) (*icmp.PacketConn, error) {
				return nil, os.NewSyscallError("socket", syscall.EPERM)
			},
		}
		if _, err := p.Ping(context.Background(), "127.0.0.1"); !errors.Is(err, ErrICMPUnavailable) {
			t.Fatal("unexpected error", err)
		}
		if p.raw.Load() {
			t.Fatal("should not remember a failed raw socket")
		}
	})

	t.Run("towards localhost as root", func(t *testing.T) {
		if testing.Short() || os.Geteuid() != 0 {
			t.Skip("requires root and network access")
		}
		p, err := NewPinger(model.DiscardLogger, "icmp")
		if err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = p.Ping(ctx, "127.0.0.1")
		if errors.Is(err, ErrICMPUnavailable) {
			t.Skip("ICMP sockets not available", err)
		}
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("towards localhost", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skip test in short mode")
		}
		p := &ICMPPinger{}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rtt, err := p.Ping(ctx, "127.0.0.1")
		if errors.Is(err, ErrICMPUnavailable) {
			t.Skip("ICMP sockets not available", err)
		}
		if err != nil {
			t.Fatal(err)
		}
		if rtt <= 0 {
			t.Fatal("expected positive rtt", rtt)
		}
	})
}

func TestFallbackPinger(t *testing.T) {
	t.Run("the secondary is used once the primary is unavailable", func(t *testing.T) {
		var primaryCalls, secondaryCalls int
		p := &FallbackPinger{
			Logger: model.DiscardLogger,
			Primary: &mocks.Pinger{MockPing: func(ctx context.Context, ip string) (time.Duration, error) {
				primaryCalls++
				return 0, ErrICMPUnavailable
			}},
			Secondary: &mocks.Pinger{MockPing: func(ctx context.Context, ip string) (time.Duration, error) {
				secondaryCalls++
				return 7 * time.Millisecond, nil
			}},
		}
		for i := 0; i < 3; i++ {
			rtt, err := p.Ping(context.Background(), "10.0.0.1")
			if err != nil || rtt != 7*time.Millisecond {
				t.Fatal("unexpected result", rtt, err)
			}
		}
		if primaryCalls != 1 || secondaryCalls != 3 {
			t.Fatal("unexpected calls", primaryCalls, secondaryCalls)
		}
	})

	t.Run("other primary errors are returned", func(t *testing.T) {
		expected := errors.New("mocked error")
		p := &FallbackPinger{
			Logger: model.DiscardLogger,
			Primary: &mocks.Pinger{MockPing: func(ctx context.Context, ip string) (time.Duration, error) {
				return 0, expected
			}},
		}
		if _, err := p.Ping(context.Background(), "10.0.0.1"); !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
	})
}

func TestNewPinger(t *testing.T) {
	for _, method := range []string{"icmp", "tcp", "auto", ""} {
		t.Run(method, func(t *testing.T) {
			p, err := NewPinger(model.DiscardLogger, method)
			if err != nil || p == nil {
				t.Fatal("unexpected result", p, err)
			}
		})
	}
	t.Run("with an unknown method", func(t *testing.T) {
		if _, err := NewPinger(model.DiscardLogger, "udp"); !errors.Is(err, ErrUnknownMethod) {
			t.Fatal("not the error we expected", err)
		}
	})
}
