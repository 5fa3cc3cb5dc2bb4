package discovery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/fasthosts/fasthosts/internal/catalog"
	"github.com/fasthosts/fasthosts/internal/mocks"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/google/go-cmp/cmp"
)

// countingResolver returns a resolver answering from table and the
// pointer to the number of lookups it performed.
func countingResolver(table map[string][]string) (*mocks.Resolver, *int64) {
	var count int64
	reso := &mocks.Resolver{
		MockLookupA: func(ctx context.Context, domain string) ([]string, error) {
			atomic.AddInt64(&count, 1)
			if addrs, found := table[domain]; found {
				return addrs, nil
			}
			return nil, errors.New("no such host")
		},
	}
	return reso, &count
}

type staticMetadata struct {
	doc   map[string][]string
	count int64
}

func (m *staticMetadata) Fetch(ctx context.Context) map[string][]string {
	atomic.AddInt64(&m.count, 1)
	return m.doc
}

func TestResolveHostnameIPs(t *testing.T) {
	t.Run("the second call uses the cache", func(t *testing.T) {
		reso, count := countingResolver(map[string][]string{
			"raw.githubusercontent.com": {"185.199.108.133", "185.199.109.133"},
		})
		source := NewSource(model.DiscardLogger, nil, reso)
		first := source.ResolveHostnameIPs(context.Background(), "raw.githubusercontent.com")
		second := source.ResolveHostnameIPs(context.Background(), "raw.githubusercontent.com")
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatal(diff)
		}
		if diff := cmp.Diff([]string{"185.199.108.133", "185.199.109.133"}, second); diff != "" {
			t.Fatal(diff)
		}
		if got := atomic.LoadInt64(count); got != 1 {
			t.Fatal("expected a single lookup, got", got)
		}
	})

	t.Run("failed lookups are cached as empty", func(t *testing.T) {
		reso, count := countingResolver(nil)
		source := NewSource(model.DiscardLogger, nil, reso)
		for i := 0; i < 2; i++ {
			if addrs := source.ResolveHostnameIPs(context.Background(), "github.dev"); len(addrs) != 0 {
				t.Fatal("expected no addresses", addrs)
			}
		}
		if got := atomic.LoadInt64(count); got != 1 {
			t.Fatal("expected a single lookup, got", got)
		}
	})

	t.Run("results of a canceled lookup are not cached", func(t *testing.T) {
		table := map[string][]string{"github.com": {"140.82.112.3"}}
		reso := &mocks.Resolver{
			MockLookupA: func(ctx context.Context, domain string) ([]string, error) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return table[domain], nil
			},
		}
		meta := &staticMetadata{doc: map[string][]string{"web": {"140.82.112.0"}}}
		source := NewSource(model.DiscardLogger, meta, reso)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		source.ResolveHostnameIPs(ctx, "github.com")
		if _, found := source.Cache.Get("github.com"); found {
			t.Fatal("should not have cached the canceled lookup")
		}
		addrs := source.ResolveHostnameIPs(context.Background(), "github.com")
		if diff := cmp.Diff([]string{"140.82.112.3", "140.82.112.0"}, addrs); diff != "" {
			t.Fatal(diff)
		}
		if got := atomic.LoadInt64(&meta.count); got != 2 {
			t.Fatal("expected the metadata to be fetched again, got", got)
		}
	})

	t.Run("metadata addresses are merged for mapped hosts", func(t *testing.T) {
		reso, _ := countingResolver(map[string][]string{
			"github.com":     {"140.82.112.3"},
			"api.github.com": {"140.82.112.5"},
		})
		meta := &staticMetadata{doc: map[string][]string{
			"web": {"140.82.112.0", "140.82.112.3"},
			"git": {"192.30.252.0"},
			"api": {"192.30.252.153"},
		}}
		source := NewSource(model.DiscardLogger, meta, reso)

		expect := []string{"140.82.112.3", "140.82.112.0", "192.30.252.0"}
		if diff := cmp.Diff(expect, source.ResolveHostnameIPs(context.Background(), "github.com")); diff != "" {
			t.Fatal(diff)
		}
		expect = []string{"140.82.112.5", "192.30.252.153"}
		if diff := cmp.Diff(expect, source.ResolveHostnameIPs(context.Background(), "api.github.com")); diff != "" {
			t.Fatal(diff)
		}
		if got := atomic.LoadInt64(&meta.count); got != 1 {
			t.Fatal("expected a single metadata fetch, got", got)
		}
	})

	t.Run("Reset forgets the cache and the metadata", func(t *testing.T) {
		reso, count := countingResolver(map[string][]string{"github.com": {"140.82.112.3"}})
		meta := &staticMetadata{doc: map[string][]string{"web": {"140.82.112.0"}}}
		source := NewSource(model.DiscardLogger, meta, reso)
		source.ResolveHostnameIPs(context.Background(), "github.com")
		source.Reset()
		source.ResolveHostnameIPs(context.Background(), "github.com")
		if atomic.LoadInt64(count) != 2 || atomic.LoadInt64(&meta.count) != 2 {
			t.Fatal("expected two lookups and two fetches")
		}
	})
}

func TestFetchMetadataIPs(t *testing.T) {
	t.Run("without a fetcher", func(t *testing.T) {
		source := NewSource(model.DiscardLogger, nil)
		if got := source.FetchMetadataIPs(context.Background()); len(got) != 0 {
			t.Fatal("expected empty map", got)
		}
	})

	t.Run("a nil document is treated as empty and not refetched", func(t *testing.T) {
		meta := &staticMetadata{}
		source := NewSource(model.DiscardLogger, meta)
		source.FetchMetadataIPs(context.Background())
		got := source.FetchMetadataIPs(context.Background())
		if got == nil || len(got) != 0 {
			t.Fatal("expected an empty non-nil map", got)
		}
		if count := atomic.LoadInt64(&meta.count); count != 1 {
			t.Fatal("expected a single fetch, got", count)
		}
	})

	t.Run("the returned map is a copy", func(t *testing.T) {
		meta := &staticMetadata{doc: map[string][]string{"web": {"140.82.112.0"}}}
		source := NewSource(model.DiscardLogger, meta)
		source.FetchMetadataIPs(context.Background())["web"][0] = "10.0.0.1"
		got := source.FetchMetadataIPs(context.Background())
		if diff := cmp.Diff(map[string][]string{"web": {"140.82.112.0"}}, got); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestDiscover(t *testing.T) {
	reso, _ := countingResolver(map[string][]string{
		"github.com":                {"140.82.112.3"},
		"raw.githubusercontent.com": {"185.199.108.133"},
		"github.githubassets.com":   {"185.199.108.154"},
	})
	source := NewSource(model.DiscardLogger, nil, reso)
	hosts := []string{"github.githubassets.com", "github.dev", "github.com", "raw.githubusercontent.com"}
	cs := source.Discover(context.Background(), hosts)
	expect := []string{"github.githubassets.com", "github.com", "raw.githubusercontent.com"}
	if diff := cmp.Diff(expect, cs.Hosts()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"140.82.112.3"}, cs.Candidates("github.com")); diff != "" {
		t.Fatal(diff)
	}
	if source.Cache.Len() != 4 {
		t.Fatal("expected every host to be cached", source.Cache.Len())
	}
}

func TestCatalogPassthrough(t *testing.T) {
	source := NewSource(nil, nil)
	if diff := cmp.Diff(catalog.Known(), source.ListKnownHostnames()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(catalog.Recommended(), source.ListRecommendedHostnames()); diff != "" {
		t.Fatal(diff)
	}
}
