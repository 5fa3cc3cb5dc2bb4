// Package engine wires discovery, probing, selection and the hosts file
// manager together and exposes them to front-ends.
//
// The XxxAsync methods run the operation in a background goroutine and
// return a channel that delivers exactly one value.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/fasthosts/fasthosts/internal/catalog"
	"github.com/fasthosts/fasthosts/internal/config"
	"github.com/fasthosts/fasthosts/internal/database"
	"github.com/fasthosts/fasthosts/internal/discovery"
	"github.com/fasthosts/fasthosts/internal/githubmeta"
	"github.com/fasthosts/fasthosts/internal/hostsfile"
	"github.com/fasthosts/fasthosts/internal/logx"
	"github.com/fasthosts/fasthosts/internal/metrics"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/fasthosts/fasthosts/internal/prober"
	"github.com/fasthosts/fasthosts/internal/resolver"
	"github.com/pkg/errors"
)

// HistoryStore records completed runs.
type HistoryStore interface {
	CreateRun(run database.Run, selections []database.Selection) (*database.Run, error)
}

var _ HistoryStore = &database.Database{}

// Engine runs the pipeline. The zero value is invalid; use [New] or
// fill all the MANDATORY fields.
type Engine struct {
	// Discovery is the MANDATORY discovery source.
	Discovery *discovery.Source

	// History is the OPTIONAL store where Run records its reports.
	History HistoryStore

	// Hosts is the MANDATORY hosts file manager.
	Hosts *hostsfile.Manager

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Metrics contains the OPTIONAL metrics.
	Metrics *metrics.Metrics

	// Prober is the MANDATORY prober.
	Prober *prober.Prober

	mutating atomic.Bool
}

// New creates an [*Engine] from the given configuration. The returned
// engine has neither history nor metrics.
func New(cfg *config.Config, logger model.Logger) (*Engine, error) {
	logger = model.ValidLoggerOrDefault(logger)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	resolvers := []model.Resolver{resolver.NewSystemResolver(logger)}
	for _, server := range cfg.DNSServers {
		prefixed := &logx.PrefixLogger{Prefix: "<" + server + "> ", Logger: logger}
		resolvers = append(resolvers, resolver.NewUDPResolver(prefixed, server))
	}
	var metadata discovery.MetadataFetcher
	if cfg.UseMetadata {
		client := githubmeta.NewClient(logger)
		client.URL = cfg.MetadataURL
		metadata = client
	}
	source := discovery.NewSource(logger, metadata, resolvers...)
	source.Timeout = cfg.ResolveTimeout()

	pinger, err := prober.NewPinger(logger, cfg.Probe.Method)
	if err != nil {
		return nil, err
	}
	p := prober.NewProber(logger, pinger)
	p.Count = cfg.Probe.Count
	p.Interval = cfg.Probe.Interval()
	p.MaxConcurrency = cfg.Probe.MaxConcurrency
	p.Timeout = cfg.Probe.Timeout()

	return &Engine{
		Discovery: source,
		Hosts:     hostsfile.NewManager(logger, cfg.HostsFile),
		Logger:    logger,
		Prober:    p,
	}, nil
}

// KnownHostnames returns the hostnames catalog.
func (e *Engine) KnownHostnames() []string {
	return e.Discovery.ListKnownHostnames()
}

// RecommendedHostnames returns the recommended subset of the catalog.
func (e *Engine) RecommendedHostnames() []string {
	return e.Discovery.ListRecommendedHostnames()
}

// IsRecommended returns whether host belongs to the recommended subset.
func (e *Engine) IsRecommended(host string) bool {
	return catalog.IsRecommended(host)
}

// Discover returns the candidate addresses of hosts.
func (e *Engine) Discover(ctx context.Context, hosts []string) *model.CandidateSet {
	candidates := e.Discovery.Discover(ctx, hosts)
	for _, host := range hosts {
		e.Metrics.ObserveResolution(len(candidates.Candidates(host)))
	}
	return candidates
}

// Probe measures the latency of ips.
func (e *Engine) Probe(ctx context.Context, ips []string) *model.ProbeResult {
	result := e.Prober.Probe(ctx, ips)
	for _, ip := range result.IPs() {
		latency, _ := result.Get(ip)
		e.Metrics.ObserveProbe(latency)
	}
	return result
}

// Apply writes sel to the hosts file. It returns false when the write
// fails or another Apply or Restore is in progress.
func (e *Engine) Apply(sel *model.Selection) bool {
	if !e.mutating.CompareAndSwap(false, true) {
		e.Logger.Warn("engine: another hosts file update is in progress")
		return false
	}
	defer e.mutating.Store(false)
	ok := e.Hosts.ApplySelection(sel)
	e.Metrics.ObserveApply(ok)
	return ok
}

// Restore restores the hosts file backup. Like Apply, it returns false
// when another update is in progress.
func (e *Engine) Restore() bool {
	if !e.mutating.CompareAndSwap(false, true) {
		e.Logger.Warn("engine: another hosts file update is in progress")
		return false
	}
	defer e.mutating.Store(false)
	return e.Hosts.RestoreBackup()
}

// Render returns the managed block for sel.
func (e *Engine) Render(sel *model.Selection) string {
	return e.Hosts.RenderSelection(sel)
}

// Preview returns the diff that applying sel would produce.
func (e *Engine) Preview(sel *model.Selection) (string, bool) {
	return e.Hosts.Preview(sel)
}

// DiscoverAsync is the asynchronous version of [Engine.Discover].
func (e *Engine) DiscoverAsync(ctx context.Context, hosts []string) <-chan *model.CandidateSet {
	out := make(chan *model.CandidateSet, 1)
	go func() {
		out <- e.Discover(ctx, hosts)
	}()
	return out
}

// ProbeAsync is the asynchronous version of [Engine.Probe].
func (e *Engine) ProbeAsync(ctx context.Context, ips []string) <-chan *model.ProbeResult {
	out := make(chan *model.ProbeResult, 1)
	go func() {
		out <- e.Probe(ctx, ips)
	}()
	return out
}

// ApplyAsync is the asynchronous version of [Engine.Apply].
func (e *Engine) ApplyAsync(sel *model.Selection) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		out <- e.Apply(sel)
	}()
	return out
}

// RenderAsync is the asynchronous version of [Engine.Render].
func (e *Engine) RenderAsync(sel *model.Selection) <-chan string {
	out := make(chan string, 1)
	go func() {
		out <- e.Render(sel)
	}()
	return out
}

// RestoreAsync is the asynchronous version of [Engine.Restore].
func (e *Engine) RestoreAsync() <-chan bool {
	out := make(chan bool, 1)
	go func() {
		out <- e.Restore()
	}()
	return out
}

// RunAsync is the asynchronous version of [Engine.Run].
func (e *Engine) RunAsync(ctx context.Context, hosts []string) <-chan *Report {
	out := make(chan *Report, 1)
	go func() {
		out <- e.Run(ctx, hosts)
	}()
	return out
}
