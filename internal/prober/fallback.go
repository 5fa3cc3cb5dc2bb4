package prober

//
// Pinger selection
//

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
)

// FallbackPinger uses Primary until it reports [ErrICMPUnavailable] and
// then permanently switches to Secondary.
type FallbackPinger struct {
	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Primary is the MANDATORY preferred pinger.
	Primary model.Pinger

	// Secondary is the MANDATORY fallback pinger.
	Secondary model.Pinger

	disabled atomic.Bool
}

var _ model.Pinger = &FallbackPinger{}

// Ping implements model.Pinger.
func (p *FallbackPinger) Ping(ctx context.Context, ip string) (time.Duration, error) {
	if !p.disabled.Load() {
		rtt, err := p.Primary.Ping(ctx, ip)
		if !errors.Is(err, ErrICMPUnavailable) {
			return rtt, err
		}
		if p.disabled.CompareAndSwap(false, true) {
			p.Logger.Warnf("prober: %s; falling back to TCP connect", err.Error())
		}
	}
	return p.Secondary.Ping(ctx, ip)
}

// ErrUnknownMethod indicates an unknown probe method.
var ErrUnknownMethod = errors.New("prober: unknown probe method")

// NewPinger creates the pinger for the given method, which is one
// of "icmp", "tcp" and "auto" (ICMP with TCP fallback).
func NewPinger(logger model.Logger, method string) (model.Pinger, error) {
	switch method {
	case "icmp":
		return &ICMPPinger{}, nil
	case "tcp":
		return NewTCPPinger(), nil
	case "auto", "":
		return &FallbackPinger{
			Logger:    model.ValidLoggerOrDefault(logger),
			Primary:   &ICMPPinger{},
			Secondary: NewTCPPinger(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
