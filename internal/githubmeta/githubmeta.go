// Package githubmeta fetches the GitHub metadata document and extracts
// the IPv4 addresses it publishes for each service category.
package githubmeta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/netip"
	"sort"
	"time"

	"github.com/fasthosts/fasthosts/internal/httpclientx"
	"github.com/fasthosts/fasthosts/internal/model"
)

// DefaultURL is the URL of the GitHub metadata document.
const DefaultURL = "https://api.github.com/meta"

// DefaultTimeout is the default timeout for fetching the document.
const DefaultTimeout = 10 * time.Second

// excludedCategory is the only top-level field that does not contain addresses.
const excludedCategory = "verifiable_password_authentication"

// Client fetches the metadata document. The zero value is invalid; use [NewClient].
type Client struct {
	// HTTPClient is the MANDATORY HTTP client.
	HTTPClient model.HTTPClient

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Timeout is the MANDATORY timeout for the whole fetch.
	Timeout time.Duration

	// URL is the MANDATORY metadata URL.
	URL string

	// UserAgent is the MANDATORY User-Agent.
	UserAgent string
}

// NewClient creates a [*Client] with default settings.
func NewClient(logger model.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{},
		Logger:     model.ValidLoggerOrDefault(logger),
		Timeout:    DefaultTimeout,
		URL:        DefaultURL,
		UserAgent:  model.HTTPHeaderUserAgent,
	}
}

// Fetch downloads the metadata document and returns the IPv4 addresses
// of each category. On any failure it logs a warning and returns an empty,
// non-nil map.
func (c *Client) Fetch(ctx context.Context) map[string][]string {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	config := &httpclientx.Config{
		Client:    c.HTTPClient,
		Logger:    c.Logger,
		UserAgent: c.UserAgent,
	}
	raw, err := httpclientx.GetJSON[map[string]json.RawMessage](ctx, config, c.URL)
	if err != nil {
		c.Logger.Warnf("githubmeta: cannot fetch %s: %s", c.URL, err.Error())
		return map[string][]string{}
	}
	return Extract(raw)
}

// Extract converts the raw categories of the metadata document to IPv4
// addresses. CIDR blocks become their network address. IPv6 entries,
// entries that are not strings and values that are not lists are
// skipped, as is the verifiable_password_authentication field.
func Extract(raw map[string]json.RawMessage) map[string][]string {
	out := map[string][]string{}
	for category, value := range raw {
		if category == excludedCategory {
			continue
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(value, &entries); err != nil {
			continue
		}
		addrs := []string{}
		for _, entry := range entries {
			var s string
			if err := json.Unmarshal(entry, &s); err != nil {
				continue
			}
			if addr, ok := NormalizeIPv4(s); ok {
				addrs = append(addrs, addr)
			}
		}
		out[category] = addrs
	}
	return out
}

// NormalizeIPv4 returns the network address of an IPv4 CIDR block or the
// address itself for a bare IPv4 address. The boolean is false for IPv6
// and unparseable input.
func NormalizeIPv4(entry string) (string, bool) {
	if prefix, err := netip.ParsePrefix(entry); err == nil {
		if !prefix.Addr().Is4() {
			return "", false
		}
		return prefix.Masked().Addr().String(), true
	}
	if addr, err := netip.ParseAddr(entry); err == nil && addr.Is4() {
		return addr.String(), true
	}
	return "", false
}

// Categories returns the sorted category names of a document.
func Categories(doc map[string][]string) []string {
	out := make([]string, 0, len(doc))
	for name := range doc {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
