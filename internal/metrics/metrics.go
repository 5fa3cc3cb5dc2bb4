// Package metrics collects prometheus metrics about discovery, probing
// and hosts file updates and exports them in the textfile format.
package metrics

import (
	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "fasthosts"

// Metrics holds the collectors. A nil *Metrics is valid and discards
// every observation.
type Metrics struct {
	// Registry is the registry containing the collectors.
	Registry *prometheus.Registry

	// Resolutions counts hostname resolutions by outcome.
	Resolutions *prometheus.CounterVec

	// Probes counts probed addresses by outcome.
	Probes *prometheus.CounterVec

	// Applies counts hosts file updates by outcome.
	Applies *prometheus.CounterVec

	// ProbeLatency summarizes the latency of reachable addresses.
	ProbeLatency prometheus.Summary
}

// New creates a [*Metrics] backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "resolutions_total",
			Help:      "Number of hostname resolutions by outcome.",
		}, []string{"outcome"}),
		Probes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "probes_total",
			Help:      "Number of probed addresses by outcome.",
		}, []string{"outcome"}),
		Applies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "applies_total",
			Help:      "Number of hosts file updates by outcome.",
		}, []string{"outcome"}),
		ProbeLatency: factory.NewSummary(prometheus.SummaryOpts{
			Namespace:  Namespace,
			Name:       "probe_latency_milliseconds",
			Help:       "Average latency of reachable addresses.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}
}

func outcome(ok bool, success, failure string) string {
	if ok {
		return success
	}
	return failure
}

// ObserveResolution records the resolution of a hostname that
// produced count addresses.
func (m *Metrics) ObserveResolution(count int) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome(count > 0, "resolved", "empty")).Inc()
}

// ObserveProbe records the measured latency of an address.
func (m *Metrics) ObserveProbe(latency model.Latency) {
	if m == nil {
		return
	}
	m.Probes.WithLabelValues(outcome(latency.Reachable(), "reachable", "unreachable")).Inc()
	if latency.Reachable() {
		m.ProbeLatency.Observe(float64(latency))
	}
}

// ObserveApply records the outcome of a hosts file update.
func (m *Metrics) ObserveApply(ok bool) {
	if m == nil {
		return
	}
	m.Applies.WithLabelValues(outcome(ok, "success", "failure")).Inc()
}

// WriteTextfile atomically writes the metrics to path in the format
// read by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrap(err, "writing metrics")
	}
	return nil
}
