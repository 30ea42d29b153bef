package api

import (
	"testing"
	"time"
)

// TestHubStop verifies Stop makes Run return and is idempotent
func TestHubStop(t *testing.T) {
	h := NewWebSocketHub(2, nil)

	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	h.Stop()
}

// TestHubBroadcastBackpressure verifies a full broadcast channel drops
// messages instead of blocking the caller
func TestHubBroadcastBackpressure(t *testing.T) {
	h := NewWebSocketHub(2, nil)
	// Run is intentionally not started, so nothing drains the channel
	for i := 0; i < 300; i++ {
		h.Broadcast("reactor:state", map[string]int{"i": i})
	}
	// Reaching here without deadlock is the assertion
	if len(h.broadcast) != cap(h.broadcast) {
		t.Errorf("broadcast buffer = %d, want full (%d)", len(h.broadcast), cap(h.broadcast))
	}
}
