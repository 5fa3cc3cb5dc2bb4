package model

//
// Latency
//

import (
	"fmt"
	"math"
	"time"
)

// Latency is a round-trip latency expressed in milliseconds.
type Latency float64

// Unreachable is the sentinel [Latency] meaning that no probe
// succeeded. It compares greater than any finite latency but code
// should always check [Latency.Reachable] rather than comparing.
var Unreachable = Latency(math.Inf(1))

// LatencyFromDuration converts a duration to a [Latency].
func LatencyFromDuration(d time.Duration) Latency {
	return Latency(float64(d) / float64(time.Millisecond))
}

// Reachable returns whether the latency is a finite value.
func (l Latency) Reachable() bool {
	return !math.IsInf(float64(l), 0) && !math.IsNaN(float64(l))
}

// String implements fmt.Stringer.
func (l Latency) String() string {
	if !l.Reachable() {
		return "unreachable"
	}
	return fmt.Sprintf("%.1f ms", float64(l))
}
