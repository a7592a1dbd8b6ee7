/*
Package countdown ticks down the time until a target clock time today.

PURPOSE:
  Drives a live "time until departure" display: a one-second ticker that
  reports the remaining duration to a callback and announces when the
  target has passed.

DESIGN:
  - Runs a background goroutine with a configurable tick interval
  - Fires the callback immediately on start, then once per tick
  - Reports done exactly once when the target is reached
  - Stop is idempotent; do not call it from inside the callback

USAGE:
  cd := countdown.New(target, func(remaining time.Duration, done bool) {
      ...
  })
  cd.Start()
  // ... later
  cd.Stop()
*/
package countdown

import (
	"log"
	"sync"
	"time"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

// Callback receives the remaining duration on every tick. done is true on
// the final call, when the target time has been reached or passed.
type Callback func(remaining time.Duration, done bool)

// Countdown ticks toward a target clock time on the current day.
type Countdown struct {
	Target       flextime.Minutes
	TickInterval time.Duration

	// Now is the clock source, swappable in tests.
	Now func() time.Time

	callback Callback
	ticker   *time.Ticker
	stop     chan bool
	stopped  bool
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// New creates a countdown toward target that reports to cb.
func New(target flextime.Minutes, cb Callback) *Countdown {
	return &Countdown{
		Target:       target,
		TickInterval: time.Second,
		Now:          time.Now,
		callback:     cb,
		stop:         make(chan bool),
	}
}

// Start begins ticking. The callback fires immediately, then on every
// tick until the target is reached or Stop is called.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker != nil || c.stopped {
		return
	}
	c.ticker = time.NewTicker(c.TickInterval)
	c.wg.Add(1)
	go c.run()

	log.Printf("[Countdown] Started toward %s", c.Target.Clock())
}

// Stop halts the countdown. Safe to call more than once and after the
// countdown finished on its own.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ticker == nil || c.stopped {
		return
	}
	c.stopped = true
	c.ticker.Stop()
	close(c.stop)
	c.wg.Wait()
	log.Println("[Countdown] Stopped")
}

func (c *Countdown) run() {
	defer c.wg.Done()

	if c.tick() {
		return
	}
	for {
		select {
		case <-c.ticker.C:
			if c.tick() {
				return
			}
		case <-c.stop:
			return
		}
	}
}

// tick reports the remaining duration and returns true once the target is
// reached.
func (c *Countdown) tick() bool {
	remaining := c.Remaining()
	if remaining <= 0 {
		c.callback(0, true)
		return true
	}
	c.callback(remaining, false)
	return false
}

// Remaining returns the duration until the target clock time today.
// Negative when the target has passed.
func (c *Countdown) Remaining() time.Duration {
	now := c.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := midnight.Add(time.Duration(c.Target) * time.Minute)
	return target.Sub(now)
}
