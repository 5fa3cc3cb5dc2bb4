package mocks

import (
	"context"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
)

// Pinger is a mockable Pinger.
type Pinger struct {
	MockPing func(ctx context.Context, ip string) (time.Duration, error)
}

var _ model.Pinger = &Pinger{}

// Ping calls MockPing.
func (p *Pinger) Ping(ctx context.Context, ip string) (time.Duration, error) {
	return p.MockPing(ctx, ip)
}
