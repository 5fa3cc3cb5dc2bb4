package mocks

import (
	"context"

	"github.com/fasthosts/fasthosts/internal/model"
)

// Resolver is a mockable Resolver.
type Resolver struct {
	MockLookupA func(ctx context.Context, domain string) ([]string, error)
	MockNetwork func() string
	MockAddress func() string
}

var _ model.Resolver = &Resolver{}

// LookupA calls MockLookupA.
func (r *Resolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	return r.MockLookupA(ctx, domain)
}

// Network calls MockNetwork.
func (r *Resolver) Network() string {
	return r.MockNetwork()
}

// Address calls MockAddress.
func (r *Resolver) Address() string {
	return r.MockAddress()
}
