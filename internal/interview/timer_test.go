package interview

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownTicks(t *testing.T) {
	c := NewCountdown(time.Millisecond)
	defer c.Stop()

	var ticks int64
	done := make(chan struct{})
	c.Start(func() bool {
		if atomic.AddInt64(&ticks, 1) >= 5 {
			close(done)
			return false
		}
		return true
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never reached 5 ticks")
	}

	// Returning false ends the loop; the count must not grow afterwards.
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != 5 {
		t.Fatalf("ticks after loop ended = %d, want 5", got)
	}
}

func TestCountdownStop(t *testing.T) {
	c := NewCountdown(time.Millisecond)

	var ticks int64
	c.Start(func() bool {
		atomic.AddInt64(&ticks, 1)
		return true
	})

	time.Sleep(20 * time.Millisecond)
	c.Stop()
	c.Stop() // idempotent

	after := atomic.LoadInt64(&ticks)
	time.Sleep(20 * time.Millisecond)
	// Allow one tick already dispatched when Stop landed.
	if got := atomic.LoadInt64(&ticks); got > after+1 {
		t.Fatalf("ticks kept arriving after Stop: %d -> %d", after, got)
	}
}

func TestCountdownStopBeforeStart(t *testing.T) {
	c := NewCountdown(time.Millisecond)
	c.Stop()

	var ticks int64
	c.Start(func() bool {
		atomic.AddInt64(&ticks, 1)
		return true
	})

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&ticks); got != 0 {
		t.Fatalf("pre-stopped countdown still ticked %d times", got)
	}
}
