package discovery

//
// Hostname to addresses cache
//

import "sync"

// Cache maps hostnames to their resolved IPv4 addresses. Entries never
// expire; call Clear to drop them. A Cache is safe for concurrent use.
// The zero value is ready to use.
type Cache struct {
	entries map[string][]string
	mu      sync.Mutex
}

// NewCache creates an empty [*Cache].
func NewCache() *Cache {
	return &Cache{}
}

// Get returns a copy of the addresses cached for host.
func (c *Cache) Get(host string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	addrs, found := c.entries[host]
	if !found {
		return nil, false
	}
	return append([]string{}, addrs...), true
}

// Put stores a copy of addrs for host. Empty results are cached too.
func (c *Cache) Put(host string, addrs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]string{}
	}
	c.entries[host] = append([]string{}, addrs...)
}

// Clear removes all the entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()
}

// Len returns the number of cached hostnames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
