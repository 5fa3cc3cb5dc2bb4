package prober

//
// Queries over probe results
//

import (
	"sort"

	"github.com/fasthosts/fasthosts/internal/model"
)

// Fastest returns the reachable address with the minimum latency. On
// ties the address recorded first wins. When nothing is reachable it
// returns an empty address and [model.Unreachable].
func Fastest(result *model.ProbeResult) (string, model.Latency) {
	bestIP, bestLatency := "", model.Unreachable
	for _, ip := range result.IPs() {
		latency, _ := result.Get(ip)
		if !latency.Reachable() {
			continue
		}
		if bestIP == "" || latency < bestLatency {
			bestIP, bestLatency = ip, latency
		}
	}
	return bestIP, bestLatency
}

// SortedAscending returns the reachable addresses sorted by ascending
// latency. Addresses with equal latency keep the order in which they
// were recorded.
func SortedAscending(result *model.ProbeResult) []Measurement {
	out := []Measurement{}
	for _, ip := range result.IPs() {
		latency, _ := result.Get(ip)
		if latency.Reachable() {
			out = append(out, Measurement{IP: ip, Latency: latency})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Latency < out[j].Latency
	})
	return out
}
