package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fasthosts/fasthosts/internal/githubmeta"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestReadConfig(t *testing.T) {
	t.Run("with a valid config", func(t *testing.T) {
		c, err := ReadConfig("testdata/valid-config.json")
		if err != nil {
			t.Fatal(err)
		}
		if c.HostsFile != "/tmp/fasthosts-hosts" {
			t.Fatal("unexpected hosts file", c.HostsFile)
		}
		if c.UseMetadata {
			t.Fatal("metadata should be disabled")
		}
		if diff := cmp.Diff([]string{"1.1.1.1", "8.8.8.8:53"}, c.DNSServers); diff != "" {
			t.Fatal(diff)
		}
		expect := Probe{Count: 4, TimeoutMS: 3000, IntervalMS: 100, MaxConcurrency: 15, Method: "tcp"}
		if diff := cmp.Diff(expect, c.Probe); diff != "" {
			t.Fatal(diff)
		}
		if c.Path() != "testdata/valid-config.json" {
			t.Fatal("unexpected path", c.Path())
		}
	})

	t.Run("with a missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		c, err := ReadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Default(), c, cmpopts.IgnoreUnexported(Config{})); diff != "" {
			t.Fatal(diff)
		}
		if c.Path() != path {
			t.Fatal("unexpected path")
		}
	})

	t.Run("with invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadConfig(path); err == nil || !strings.HasPrefix(err.Error(), "parsing config") {
			t.Fatal("unexpected error", err)
		}
	})
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.MetadataURL != githubmeta.DefaultURL {
		t.Fatal("unexpected metadata URL")
	}
	if c.ResolveTimeout() != 5*time.Second {
		t.Fatal("unexpected resolve timeout")
	}
	if c.Probe.Timeout() != 3*time.Second || c.Probe.Interval() != 100*time.Millisecond {
		t.Fatal("unexpected probe timings")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(c *Config)
		expect string
	}{{
		name:   "metadata URL without scheme",
		modify: func(c *Config) { c.MetadataURL = "api.github.com/meta" },
		expect: "metadata_url must be an http or https URL",
	}, {
		name:   "empty DNS server",
		modify: func(c *Config) { c.DNSServers = []string{""} },
		expect: "dns_servers contains an empty entry",
	}, {
		name:   "zero resolve timeout",
		modify: func(c *Config) { c.ResolveTimeoutMS = 0 },
		expect: "resolve_timeout_ms must be positive",
	}, {
		name:   "zero probe count",
		modify: func(c *Config) { c.Probe.Count = 0 },
		expect: "probe.count must be at least 1",
	}, {
		name:   "negative probe timeout",
		modify: func(c *Config) { c.Probe.TimeoutMS = -1 },
		expect: "probe.timeout_ms must be positive",
	}, {
		name:   "negative interval",
		modify: func(c *Config) { c.Probe.IntervalMS = -1 },
		expect: "probe.interval_ms must not be negative",
	}, {
		name:   "zero concurrency",
		modify: func(c *Config) { c.Probe.MaxConcurrency = 0 },
		expect: "probe.max_concurrency must be at least 1",
	}, {
		name:   "unknown method",
		modify: func(c *Config) { c.Probe.Method = "udp" },
		expect: `probe.method: unknown method "udp"`,
	}, {
		name:   "invalid URL ignored without metadata",
		modify: func(c *Config) {
			c.UseMetadata = false
			c.MetadataURL = ""
		},
		expect: "",
	}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.modify(c)
			err := c.Validate()
			switch {
			case tc.expect == "" && err != nil:
				t.Fatal("unexpected error", err)
			case tc.expect != "" && (err == nil || err.Error() != tc.expect):
				t.Fatalf("expected %q, got %v", tc.expect, err)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "config.json")
		c, err := ReadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		c.HostsFile = "/tmp/hosts"
		c.Probe.Method = "icmp"
		if err := c.Write(); err != nil {
			t.Fatal(err)
		}
		again, err := ReadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(c, again, cmpopts.IgnoreUnexported(Config{})); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("without a path", func(t *testing.T) {
		if err := Default().Write(); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("writes the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "home", "config.json")
		c, err := Init(path, false)
		if err != nil {
			t.Fatal(err)
		}
		if c.Path() != path {
			t.Fatal("unexpected path", c.Path())
		}
		again, err := ReadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Default(), again, cmpopts.IgnoreUnexported(Config{})); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Init(path, false); !errors.Is(err, ErrConfigExists) {
			t.Fatal("not the error we expected", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "{}" {
			t.Fatal("the file should be untouched", string(data))
		}
	})

	t.Run("overwrites a broken file with force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("{"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Init(path, true); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadConfig(path); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDefaultHome(t *testing.T) {
	t.Setenv(HomeEnv, "/srv/fasthosts")
	home, err := DefaultHome()
	if err != nil {
		t.Fatal(err)
	}
	if home != "/srv/fasthosts" {
		t.Fatal("unexpected home", home)
	}
	if ConfigPath(home) != filepath.Join("/srv/fasthosts", "config.json") {
		t.Fatal("unexpected config path")
	}
	if HistoryPath(home) != filepath.Join("/srv/fasthosts", "history.sqlite3") {
		t.Fatal("unexpected history path")
	}
}
