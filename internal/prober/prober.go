// Package prober measures the round-trip latency towards IPv4 addresses
// using a bounded pool of workers.
package prober

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/montanaflynn/stats"
)

const (
	// DefaultCount is the default number of probes per address.
	DefaultCount = 2

	// DefaultTimeout is the default timeout of each probe.
	DefaultTimeout = 3 * time.Second

	// DefaultInterval is the default pause after each probe of the same address.
	DefaultInterval = 100 * time.Millisecond

	// DefaultMaxConcurrency is the default number of addresses probed concurrently.
	DefaultMaxConcurrency = 15
)

// ErrTimeout indicates that a probe did not complete in time.
var ErrTimeout = errors.New("prober: probe timed out")

// Measurement is the aggregated latency of an address.
type Measurement struct {
	IP      string
	Latency model.Latency
}

// Prober probes addresses. The zero value is invalid; use [NewProber].
type Prober struct {
	// Count is the MANDATORY number of sequential probes per address.
	Count int

	// Interval is the OPTIONAL pause after each probe.
	Interval time.Duration

	// Logger is the MANDATORY logger.
	Logger model.Logger

	// MaxConcurrency is the MANDATORY maximum number of addresses
	// probed concurrently.
	MaxConcurrency int

	// OnMeasurement is an OPTIONAL callback invoked, from a single
	// goroutine, as soon as each address has been measured.
	OnMeasurement func(m Measurement)

	// Pinger is the MANDATORY pinger.
	Pinger model.Pinger

	// Timeout is the MANDATORY per-probe timeout.
	Timeout time.Duration

	latest *model.ProbeResult
	mu     sync.Mutex
}

// NewProber creates a [*Prober] using the default settings.
func NewProber(logger model.Logger, pinger model.Pinger) *Prober {
	return &Prober{
		Count:          DefaultCount,
		Interval:       DefaultInterval,
		Logger:         model.ValidLoggerOrDefault(logger),
		MaxConcurrency: DefaultMaxConcurrency,
		Pinger:         pinger,
		Timeout:        DefaultTimeout,
	}
}

// Probe measures every address in ips and returns the results, which
// also become the latest result used by Fastest and SortedAscending.
// Addresses without any successful probe get [model.Unreachable].
func (p *Prober) Probe(ctx context.Context, ips []string) *model.ProbeResult {
	ips = uniqueStrings(ips)

	// feed the workers
	inputs := make(chan string)
	go func() {
		defer close(inputs)
		for _, ip := range ips {
			inputs <- ip
		}
	}()

	// spawn the workers
	outputs := make(chan Measurement)
	wg := &sync.WaitGroup{}
	for i := 0; i < min(max(1, p.MaxConcurrency), max(1, len(ips))); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range inputs {
				outputs <- Measurement{IP: ip, Latency: p.probeAddress(ctx, ip)}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outputs)
	}()

	// collect in completion order
	result := model.NewProbeResult()
	for m := range outputs {
		result.Set(m.IP, m.Latency)
		if p.OnMeasurement != nil {
			p.OnMeasurement(m)
		}
	}

	p.mu.Lock()
	p.latest = result
	p.mu.Unlock()
	return result
}

// probeAddress runs Count sequential probes towards ip and returns
// the average latency of the successful ones.
func (p *Prober) probeAddress(ctx context.Context, ip string) model.Latency {
	var samples []float64
	for i := 0; i < p.Count && ctx.Err() == nil; i++ {
		rtt, err := p.probeOnce(ctx, ip)
		if err != nil {
			p.Logger.Debugf("prober: probe #%d towards %s: %s", i, ip, err.Error())
		} else {
			samples = append(samples, float64(model.LatencyFromDuration(rtt)))
		}
		sleepContext(ctx, p.Interval)
	}
	if len(samples) <= 0 {
		p.Logger.Debugf("prober: %s is unreachable", ip)
		return model.Unreachable
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return model.Unreachable
	}
	p.Logger.Debugf("prober: %s: %.1f ms (%d/%d probes)", ip, mean, len(samples), p.Count)
	return model.Latency(mean)
}

func (p *Prober) probeOnce(ctx context.Context, ip string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	rtt, err := p.Pinger.Ping(ctx, ip)
	if err != nil && ctx.Err() != nil {
		return 0, ErrTimeout
	}
	return rtt, err
}

// Latest returns the latest result, or an empty result if Probe
// has never been called.
func (p *Prober) Latest() *model.ProbeResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return model.NewProbeResult()
	}
	return p.latest
}

// Fastest is like the [Fastest] function but probes ips first, if
// not empty, and otherwise uses the latest result.
func (p *Prober) Fastest(ctx context.Context, ips ...string) (string, model.Latency) {
	return Fastest(p.resultFor(ctx, ips))
}

// SortedAscending is like the [SortedAscending] function but probes
// ips first, if not empty, and otherwise uses the latest result.
func (p *Prober) SortedAscending(ctx context.Context, ips ...string) []Measurement {
	return SortedAscending(p.resultFor(ctx, ips))
}

func (p *Prober) resultFor(ctx context.Context, ips []string) *model.ProbeResult {
	if len(ips) > 0 {
		return p.Probe(ctx, ips)
	}
	return p.Latest()
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func uniqueStrings(values []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
