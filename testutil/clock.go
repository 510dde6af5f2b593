// Package testutil holds deterministic stand-ins used by package tests.
package testutil

import (
	"sync"
	"time"

	"motion-tracker/utils"
)

// ManualClock is a utils.Clock whose tickers only fire when Tick is called.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) NewTicker(d time.Duration) utils.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &ManualTicker{ch: make(chan time.Time), period: d}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward without firing tickers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Tick advances the clock by each live ticker's period and delivers one
// tick to it. The send is unbuffered, so Tick returns only after the
// receiving goroutine has taken the value.
func (c *ManualClock) Tick() {
	c.mu.Lock()
	live := make([]*ManualTicker, 0, len(c.tickers))
	for _, t := range c.tickers {
		if !t.stopped() {
			live = append(live, t)
		}
	}
	c.tickers = live
	c.mu.Unlock()

	for _, t := range live {
		c.Advance(t.period)
		t.fire(c.Now())
	}
}

// Tickers returns the number of tickers that have not been stopped.
func (c *ManualClock) Tickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped() {
			n++
		}
	}
	return n
}

// ManualTicker is returned by ManualClock.NewTicker.
type ManualTicker struct {
	mu     sync.Mutex
	ch     chan time.Time
	period time.Duration
	done   bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.ch }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.done = true
	t.mu.Unlock()
}

func (t *ManualTicker) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *ManualTicker) fire(now time.Time) {
	if t.stopped() {
		return
	}
	select {
	case t.ch <- now:
	case <-time.After(time.Second):
	}
}
