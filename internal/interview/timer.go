package interview

import (
	"sync"
	"time"
)

// Countdown is a cancelable fixed-interval tick loop. One handle is live per
// question: the owner stops it before starting the next question's countdown
// and on teardown. The tick callback returns false to end the loop itself
// (e.g. when the bound time reaches zero).
//
// Stop is idempotent and safe to call from inside the tick callback. A tick
// already dispatched when Stop is called may still run; owners that need
// strict once-only semantics guard their callback (the interview service
// uses a session generation counter for this).
type Countdown struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewCountdown(interval time.Duration) *Countdown {
	return &Countdown{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the tick loop in its own goroutine. It must be called at
// most once per Countdown.
func (c *Countdown) Start(tick func() bool) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				select {
				case <-c.stop:
					return
				default:
				}
				if !tick() {
					return
				}
			}
		}
	}()
}

// Stop cancels the loop. Safe to call multiple times and before Start.
func (c *Countdown) Stop() {
	c.once.Do(func() {
		close(c.stop)
	})
}
