package discovery

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCache(t *testing.T) {
	t.Run("the zero value is ready to use", func(t *testing.T) {
		var c Cache
		if _, found := c.Get("github.com"); found {
			t.Fatal("expected not found")
		}
		c.Put("github.com", []string{"140.82.112.3"})
		if c.Len() != 1 {
			t.Fatal("unexpected length", c.Len())
		}
	})

	t.Run("Put and Get copy the addresses", func(t *testing.T) {
		c := NewCache()
		addrs := []string{"140.82.112.3"}
		c.Put("github.com", addrs)
		addrs[0] = "10.0.0.1"
		got, found := c.Get("github.com")
		if !found {
			t.Fatal("expected found")
		}
		got[0] = "10.0.0.2"
		again, _ := c.Get("github.com")
		if diff := cmp.Diff([]string{"140.82.112.3"}, again); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("empty results are cached", func(t *testing.T) {
		c := NewCache()
		c.Put("github.com", nil)
		got, found := c.Get("github.com")
		if !found || len(got) != 0 {
			t.Fatal("unexpected result", got, found)
		}
	})

	t.Run("Clear removes everything", func(t *testing.T) {
		c := NewCache()
		c.Put("github.com", []string{"140.82.112.3"})
		c.Put("api.github.com", []string{"140.82.112.5"})
		c.Clear()
		if c.Len() != 0 {
			t.Fatal("expected empty cache")
		}
	})

	t.Run("concurrent use", func(t *testing.T) {
		c := NewCache()
		wg := &sync.WaitGroup{}
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Put("github.com", []string{"140.82.112.3"})
				c.Get("github.com")
			}()
		}
		wg.Wait()
		if c.Len() != 1 {
			t.Fatal("unexpected length", c.Len())
		}
	})
}
