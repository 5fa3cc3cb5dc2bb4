// Package config contains the fasthosts configuration file.
//
// The configuration is JSON with comments and trailing commas, as
// accepted by github.com/tailscale/hujson.
package config

import (
	"bytes"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fasthosts/fasthosts/internal/githubmeta"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/tailscale/hujson"
)

// HomeEnv is the environment variable overriding the home directory.
const HomeEnv = "FASTHOSTS_HOME"

// DefaultHome returns the fasthosts home directory.
func DefaultHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "finding home directory")
	}
	return filepath.Join(home, ".fasthosts"), nil
}

// ConfigPath returns the path of the configuration file inside home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.json")
}

// HistoryPath returns the default path of the history database inside home.
func HistoryPath(home string) string {
	return filepath.Join(home, "history.sqlite3")
}

// Probe contains the prober settings.
type Probe struct {
	Count          int    `json:"count"`
	TimeoutMS      int64  `json:"timeout_ms"`
	IntervalMS     int64  `json:"interval_ms"`
	MaxConcurrency int    `json:"max_concurrency"`
	Method         string `json:"method"`
}

// Timeout returns the per-probe timeout.
func (p *Probe) Timeout() time.Duration {
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

// Interval returns the pause between probes of the same address.
func (p *Probe) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// Config is the fasthosts configuration.
type Config struct {
	Comment string `json:"_,omitempty"`

	// HostsFile is the hosts file to manage; empty means the system one.
	HostsFile string `json:"hosts_file"`

	MetadataURL string `json:"metadata_url"`
	UseMetadata bool   `json:"use_metadata"`

	// DNSServers are the UDP resolvers queried in addition to the
	// system resolver.
	DNSServers       []string `json:"dns_servers"`
	ResolveTimeoutMS int64    `json:"resolve_timeout_ms"`

	Probe Probe `json:"probe"`

	// HistoryDB is the history database; empty means the default one.
	HistoryDB string `json:"history_db"`

	mutex sync.Mutex
	path  string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MetadataURL:      githubmeta.DefaultURL,
		UseMetadata:      true,
		DNSServers:       []string{},
		ResolveTimeoutMS: 5000,
		Probe: Probe{
			Count:          2,
			TimeoutMS:      3000,
			IntervalMS:     100,
			MaxConcurrency: 15,
			Method:         "auto",
		},
	}
}

// ReadConfig reads the configuration from path. A missing file
// yields the default configuration bound to path.
func ReadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := Default()
		c.path = path
		return c, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	c.path = path
	return c, nil
}

// ErrConfigExists indicates that Init would overwrite a configuration file.
var ErrConfigExists = errors.New("config: file already exists")

// Init writes the default configuration to path and returns it. Unless
// force is true, an existing file is left untouched and Init fails
// with [ErrConfigExists].
func Init(path string, force bool) (*Config, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return nil, errors.Wrap(ErrConfigExists, path)
	}
	c := Default()
	c.path = path
	if err := c.Write(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseConfig returns the configuration in b, using the defaults for
// the missing fields.
func ParseConfig(b []byte) (*Config, error) {
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing hujson")
	}
	c := Default()
	if err := json.Unmarshal(std, c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}
	return c, nil
}

// Path returns the path the configuration was read from.
func (c *Config) Path() string {
	return c.path
}

// ResolveTimeout returns the per-attempt resolution timeout.
func (c *Config) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutMS) * time.Millisecond
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.UseMetadata {
		u, err := url.Parse(c.MetadataURL)
		if err != nil {
			return errors.Wrap(err, "invalid metadata_url")
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("metadata_url must be an http or https URL")
		}
	}
	for _, server := range c.DNSServers {
		if server == "" {
			return errors.New("dns_servers contains an empty entry")
		}
	}
	if c.ResolveTimeoutMS <= 0 {
		return errors.New("resolve_timeout_ms must be positive")
	}
	if c.Probe.Count < 1 {
		return errors.New("probe.count must be at least 1")
	}
	if c.Probe.TimeoutMS <= 0 {
		return errors.New("probe.timeout_ms must be positive")
	}
	if c.Probe.IntervalMS < 0 {
		return errors.New("probe.interval_ms must not be negative")
	}
	if c.Probe.MaxConcurrency < 1 {
		return errors.New("probe.max_concurrency must be at least 1")
	}
	switch c.Probe.Method {
	case "", "auto", "icmp", "tcp":
	default:
		return errors.Errorf("probe.method: unknown method %q", c.Probe.Method)
	}
	return nil
}

// Write writes the configuration to the path it was read from.
func (c *Config) Write() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.path == "" {
		return errors.New("config file path is empty")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := lockedfile.Write(c.path, bytes.NewReader(data), 0600); err != nil {
		return errors.Wrap(err, "writing config JSON")
	}
	return nil
}
