package api

import (
	"testing"
	"time"
)

// TestRateLimiterDefaultsCleanupInterval verifies a config without a
// cleanup interval gets the default instead of feeding zero to the
// cleanup ticker
func TestRateLimiterDefaultsCleanupInterval(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 100, Burst: 100})
	defer rl.Stop()

	if rl.config.CleanupInterval != DefaultRateLimitConfig.CleanupInterval {
		t.Errorf("cleanup interval = %v, want %v",
			rl.config.CleanupInterval, DefaultRateLimitConfig.CleanupInterval)
	}

	// Give the cleanup goroutine a chance to start; with a zero
	// interval it would crash the process here.
	time.Sleep(10 * time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Error("first request rejected")
	}
}

// TestRateLimiterBlocksAfterBurst verifies the per-IP token bucket
// rejects once the burst is spent and keeps IPs independent
func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.2") {
			t.Fatalf("request %d within burst rejected", i+1)
		}
	}
	if rl.Allow("10.0.0.2") {
		t.Error("request beyond burst allowed")
	}
	if !rl.Allow("10.0.0.3") {
		t.Error("unrelated IP throttled")
	}
}

// TestRateLimiterStopIdempotent verifies double Stop is safe
func TestRateLimiterStopIdempotent(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	rl.Stop()
	rl.Stop()
}
