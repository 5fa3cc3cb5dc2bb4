package mocks

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestResolver(t *testing.T) {
	t.Run("LookupA", func(t *testing.T) {
		expected := errors.New("mocked error")
		r := &Resolver{
			MockLookupA: func(ctx context.Context, domain string) ([]string, error) {
				return nil, expected
			},
		}
		addrs, err := r.LookupA(context.Background(), "github.com")
		if !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
		if addrs != nil {
			t.Fatal("expected nil addrs")
		}
	})

	t.Run("Network and Address", func(t *testing.T) {
		r := &Resolver{
			MockNetwork: func() string { return "udp" },
			MockAddress: func() string { return "8.8.8.8:53" },
		}
		if r.Network() != "udp" || r.Address() != "8.8.8.8:53" {
			t.Fatal("unexpected values")
		}
	})
}

func TestPinger(t *testing.T) {
	p := &Pinger{
		MockPing: func(ctx context.Context, ip string) (time.Duration, error) {
			return 10 * time.Millisecond, nil
		},
	}
	rtt, err := p.Ping(context.Background(), "1.1.1.1")
	if err != nil || rtt != 10*time.Millisecond {
		t.Fatal("unexpected result", rtt, err)
	}
}

func TestHTTPClient(t *testing.T) {
	t.Run("Do", func(t *testing.T) {
		expected := errors.New("mocked error")
		c := &HTTPClient{
			MockDo: func(req *http.Request) (*http.Response, error) {
				return nil, expected
			},
		}
		resp, err := c.Do(&http.Request{})
		if !errors.Is(err, expected) {
			t.Fatal("not the error we expected", err)
		}
		if resp != nil {
			t.Fatal("expected nil response")
		}
	})

	t.Run("CloseIdleConnections", func(t *testing.T) {
		called := false
		c := &HTTPClient{
			MockCloseIdleConnections: func() { called = true },
		}
		c.CloseIdleConnections()
		if !called {
			t.Fatal("not called")
		}
	})
}
