package engine

//
// Discover, probe and select
//

import (
	"context"
	"time"

	"github.com/fasthosts/fasthosts/internal/database"
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/fasthosts/fasthosts/internal/selector"
	"github.com/google/uuid"
)

// Report is the outcome of [Engine.Run].
type Report struct {
	// ID uniquely identifies the run.
	ID string

	// StartedAt is when the run started.
	StartedAt time.Time

	// Runtime is how long the run took.
	Runtime time.Duration

	// Hosts contains the hostnames we were asked to accelerate.
	Hosts []string

	// Candidates contains the discovered addresses.
	Candidates *model.CandidateSet

	// Probes contains the measured latencies.
	Probes *model.ProbeResult

	// Selection contains the fastest reachable address of each host.
	Selection *model.Selection
}

// Latency returns the latency of the address selected for host.
func (r *Report) Latency(host string) model.Latency {
	ip, found := r.Selection.Get(host)
	if !found {
		return model.Unreachable
	}
	latency, found := r.Probes.Get(ip)
	if !found {
		return model.Unreachable
	}
	return latency
}

// Run discovers the addresses of hosts, probes them and selects the
// fastest one for each host, without touching the hosts file. An empty
// hosts selects the recommended hostnames. When History is set the
// report is also recorded; failing to record it is only logged.
func (e *Engine) Run(ctx context.Context, hosts []string) *Report {
	if len(hosts) <= 0 {
		hosts = e.RecommendedHostnames()
	}
	report := &Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Hosts:     append([]string{}, hosts...),
	}
	report.Candidates = e.Discover(ctx, hosts)
	report.Probes = e.Probe(ctx, report.Candidates.Flatten())
	report.Selection = selector.Select(report.Candidates, report.Probes)
	report.Runtime = time.Since(report.StartedAt)
	e.Logger.Infof("engine: selected %d of %d hosts in %s",
		report.Selection.Len(), len(hosts), report.Runtime.Round(time.Millisecond))
	e.record(report)
	return report
}

func (e *Engine) record(report *Report) {
	if e.History == nil {
		return
	}
	run := database.Run{
		UUID:       report.ID,
		StartedAt:  report.StartedAt,
		Hosts:      int64(len(report.Hosts)),
		Candidates: int64(len(report.Candidates.Flatten())),
		Reachable:  int64(report.Probes.Reachable()),
	}
	selections := []database.Selection{}
	for _, entry := range report.Selection.Entries() {
		selections = append(selections, database.Selection{
			Hostname:  entry.Hostname,
			IP:        entry.IP,
			LatencyMs: float64(report.Latency(entry.Hostname)),
		})
	}
	if _, err := e.History.CreateRun(run, selections); err != nil {
		e.Logger.Warnf("engine: cannot record run %s: %s", report.ID, err.Error())
	}
}
