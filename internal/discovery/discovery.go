// Package discovery collects the candidate IPv4 addresses of hostnames
// by merging name resolution with the GitHub metadata document.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/fasthosts/fasthosts/internal/catalog"
	"github.com/fasthosts/fasthosts/internal/githubmeta"
	"github.com/fasthosts/fasthosts/internal/logx"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/fasthosts/fasthosts/internal/resolver"
)

// DefaultParallelism is the default number of hostnames resolved concurrently by Discover.
const DefaultParallelism = 5

// MetadataFetcher fetches the metadata document. The returned map maps
// each category to IPv4 addresses and is empty on failure.
type MetadataFetcher interface {
	Fetch(ctx context.Context) map[string][]string
}

// Source discovers candidate addresses. The zero value is invalid; use [NewSource].
type Source struct {
	// Cache is the MANDATORY cache owned by this source.
	Cache *Cache

	// Categories is the MANDATORY function mapping a hostname to the
	// metadata categories containing its addresses.
	Categories func(host string) []string

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Metadata is the OPTIONAL metadata fetcher. When nil we only use
	// name resolution.
	Metadata MetadataFetcher

	// Parallelism is the MANDATORY number of hostnames that Discover
	// resolves concurrently.
	Parallelism int

	// Resolvers contains the MANDATORY resolvers to use.
	Resolvers []model.Resolver

	// Timeout is the MANDATORY per-attempt resolution timeout.
	Timeout time.Duration

	meta map[string][]string
	mu   sync.Mutex
}

// NewSource creates a [*Source] with an empty cache.
//
// Arguments:
//
// - logger is the logger to use;
//
// - metadata is the OPTIONAL metadata fetcher;
//
// - resolvers are the resolvers to query concurrently.
func NewSource(logger model.Logger, metadata MetadataFetcher, resolvers ...model.Resolver) *Source {
	return &Source{
		Cache:       NewCache(),
		Categories:  catalog.MetadataCategories,
		Logger:      model.ValidLoggerOrDefault(logger),
		Metadata:    metadata,
		Parallelism: DefaultParallelism,
		Resolvers:   resolvers,
		Timeout:     resolver.DefaultAttemptTimeout,
	}
}

// ListKnownHostnames returns the hostnames catalog.
func (s *Source) ListKnownHostnames() []string {
	return catalog.Known()
}

// ListRecommendedHostnames returns the recommended hostnames.
func (s *Source) ListRecommendedHostnames() []string {
	return catalog.Recommended()
}

// FetchMetadataIPs returns the metadata addresses by category. The
// document is fetched at most once until Reset is called. A fetch
// interrupted by ctx is not remembered.
func (s *Source) FetchMetadataIPs(ctx context.Context) map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta := s.meta
	if meta == nil {
		meta = map[string][]string{}
		if s.Metadata != nil {
			if doc := s.Metadata.Fetch(ctx); doc != nil {
				meta = doc
			}
		}
		s.Logger.Debugf("discovery: metadata categories: %v", githubmeta.Categories(meta))
		if ctx.Err() == nil {
			s.meta = meta
		}
	}
	out := make(map[string][]string, len(meta))
	for category, addrs := range meta {
		out[category] = append([]string{}, addrs...)
	}
	return out
}

// ResolveHostnameIPs returns the candidate addresses of host. Cached
// results are returned without network activity. Errors are logged and
// only cause fewer addresses to be returned. Results obtained after ctx
// is done are not cached.
func (s *Source) ResolveHostnameIPs(ctx context.Context, host string) []string {
	if addrs, found := s.Cache.Get(host); found {
		s.Logger.Debugf("discovery: %s: using cached addresses %v", host, addrs)
		return addrs
	}
	ol := logx.NewOperationLogger(s.Logger, "discovery: resolving %s", host)
	addrs := resolver.ParallelLookup(ctx, s.Logger, host, s.Timeout, s.Resolvers...)
	if categories := s.Categories(host); len(categories) > 0 && s.Metadata != nil {
		meta := s.FetchMetadataIPs(ctx)
		for _, category := range categories {
			addrs = appendUnique(addrs, meta[category]...)
		}
	}
	// an interrupted lookup says nothing about the host
	if ctx.Err() == nil {
		s.Cache.Put(host, addrs)
	}
	ol.Stop(addrs)
	return addrs
}

// Discover resolves the given hosts concurrently and returns a candidate
// set in the order of hosts. Hosts without addresses are omitted.
func (s *Source) Discover(ctx context.Context, hosts []string) *model.CandidateSet {
	type result struct {
		index int
		addrs []string
	}

	// feed the workers
	inputs := make(chan int)
	go func() {
		defer close(inputs)
		for idx := range hosts {
			inputs <- idx
		}
	}()

	// spawn the workers
	results := make(chan *result)
	wg := &sync.WaitGroup{}
	for i := 0; i < max(1, s.Parallelism); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range inputs {
				results <- &result{index: idx, addrs: s.ResolveHostnameIPs(ctx, hosts[idx])}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// collect and rebuild the original order
	byIndex := make([][]string, len(hosts))
	for res := range results {
		byIndex[res.index] = res.addrs
	}
	candidates := model.NewCandidateSet()
	for idx, host := range hosts {
		if len(byIndex[idx]) <= 0 {
			s.Logger.Warnf("discovery: no addresses for %s", host)
			continue
		}
		candidates.Add(host, byIndex[idx]...)
	}
	return candidates
}

// Reset clears the cache and forgets the metadata document.
func (s *Source) Reset() {
	s.Cache.Clear()
	s.mu.Lock()
	s.meta = nil
	s.mu.Unlock()
}

func appendUnique(addrs []string, extra ...string) []string {
	seen := make(map[string]bool, len(addrs))
	for _, addr := range addrs {
		seen[addr] = true
	}
	for _, addr := range extra {
		if !seen[addr] {
			seen[addr] = true
			addrs = append(addrs, addr)
		}
	}
	return addrs
}
