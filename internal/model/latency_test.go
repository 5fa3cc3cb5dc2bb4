package model

import (
	"math"
	"testing"
	"time"
)

func TestLatency(t *testing.T) {
	t.Run("Unreachable is not reachable", func(t *testing.T) {
		if Unreachable.Reachable() {
			t.Fatal("expected false")
		}
		if Unreachable.String() != "unreachable" {
			t.Fatal("unexpected string", Unreachable.String())
		}
	})

	t.Run("NaN is not reachable", func(t *testing.T) {
		if Latency(math.NaN()).Reachable() {
			t.Fatal("expected false")
		}
	})

	t.Run("finite values are reachable", func(t *testing.T) {
		l := LatencyFromDuration(12345 * time.Microsecond)
		if !l.Reachable() {
			t.Fatal("expected true")
		}
		if l != 12.345 {
			t.Fatal("unexpected value", float64(l))
		}
		if l.String() != "12.3 ms" {
			t.Fatal("unexpected string", l.String())
		}
	})
}
