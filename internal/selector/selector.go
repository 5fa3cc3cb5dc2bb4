// Package selector chooses the fastest reachable address of each hostname.
package selector

import "github.com/fasthosts/fasthosts/internal/model"

// Select returns, for each hostname in candidates, the candidate with the
// minimum finite latency in probes. On ties the candidate discovered first
// wins. Hostnames without reachable candidates are omitted. Select does
// not modify its arguments.
func Select(candidates *model.CandidateSet, probes *model.ProbeResult) *model.Selection {
	selection := model.NewSelection()
	for _, host := range candidates.Hosts() {
		bestIP, bestLatency := "", model.Unreachable
		for _, ip := range candidates.Candidates(host) {
			latency, found := probes.Get(ip)
			if !found || !latency.Reachable() {
				continue
			}
			if bestIP == "" || latency < bestLatency {
				bestIP, bestLatency = ip, latency
			}
		}
		if bestIP != "" {
			selection.Set(host, bestIP)
		}
	}
	return selection
}
