package metrics

import (
	"testing"
	"time"
)

func TestCollectorCountsOutcomesPerCategory(t *testing.T) {
	c := NewCollector()

	c.Record("SIM", 10*time.Millisecond, true)
	c.Record("SIM", 20*time.Millisecond, false)
	c.Record("OTP", 5*time.Millisecond, true)

	stats := c.Stats(time.Second)
	if stats.Total != 3 {
		t.Fatalf("expected total 3, got %d", stats.Total)
	}
	if stats.Successes != 2 || stats.Failures != 1 {
		t.Fatalf("expected 2/1 successes/failures, got %d/%d", stats.Successes, stats.Failures)
	}

	if len(stats.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.Categories))
	}
	// Sorted alphabetically: OTP then SIM.
	if stats.Categories[0].Category != "OTP" || stats.Categories[0].Successes != 1 {
		t.Fatalf("unexpected OTP stats: %+v", stats.Categories[0])
	}
	if stats.Categories[1].Category != "SIM" || stats.Categories[1].Failures != 1 {
		t.Fatalf("unexpected SIM stats: %+v", stats.Categories[1])
	}
}

func TestCollectorLatencyBounds(t *testing.T) {
	c := NewCollector()

	c.Record("SIM", 10*time.Millisecond, true)
	c.Record("SIM", 30*time.Millisecond, true)

	stats := c.Stats(time.Second)
	if stats.MinLatency != 10*time.Millisecond {
		t.Fatalf("expected min 10ms, got %s", stats.MinLatency)
	}
	if stats.MaxLatency != 30*time.Millisecond {
		t.Fatalf("expected max 30ms, got %s", stats.MaxLatency)
	}
	if stats.MeanLatency != 20*time.Millisecond {
		t.Fatalf("expected mean 20ms, got %s", stats.MeanLatency)
	}
	if stats.P99Latency < stats.P50Latency {
		t.Fatalf("p99 %s below p50 %s", stats.P99Latency, stats.P50Latency)
	}
}

func TestCollectorEmptyStats(t *testing.T) {
	c := NewCollector()

	stats := c.Stats(0)
	if stats.Total != 0 || stats.RequestsPerSec != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.Categories) != 0 {
		t.Fatalf("expected no categories, got %d", len(stats.Categories))
	}
}

func TestCollectorRequestsPerSec(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 10; i++ {
		c.Record("SIM", time.Millisecond, true)
	}

	stats := c.Stats(2 * time.Second)
	if stats.RequestsPerSec != 5 {
		t.Fatalf("expected 5 rps, got %.2f", stats.RequestsPerSec)
	}
}
