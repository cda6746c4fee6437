// Package clock is a wall-clock playback position for when no media
// player reports one. It tracks elapsed time across pauses and seeks.
package clock

import (
	"sync"
	"time"
)

type Clock struct {
	mu          sync.Mutex
	now         func() time.Time
	started     time.Time
	running     bool
	accumulated time.Duration
}

func New() *Clock {
	return &Clock{now: time.Now}
}

// NewWithNow builds a clock that reads time from now.
func NewWithNow(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Start resets the position to zero and begins running.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accumulated = 0
	c.started = c.now()
	c.running = true
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pause()
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resume()
}

// Toggle pauses a running clock or resumes a paused one and reports
// whether it is now running.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.pause()
	} else {
		c.resume()
	}
	return c.running
}

func (c *Clock) pause() {
	if !c.running {
		return
	}
	c.accumulated = c.position()
	c.running = false
}

func (c *Clock) resume() {
	if c.running {
		return
	}
	c.started = c.now()
	c.running = true
}

// Stop halts the clock and rewinds it to zero.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accumulated = 0
	c.running = false
}

// Seek moves to an absolute position, keeping the running state.
func (c *Clock) Seek(ms uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accumulated = time.Duration(ms) * time.Millisecond
	if c.running {
		c.started = c.now()
	}
}

// SeekBy moves relative to the current position, stopping at zero.
func (c *Clock) SeekBy(deltaMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := c.position() + time.Duration(deltaMs)*time.Millisecond
	if pos < 0 {
		pos = 0
	}

	c.accumulated = pos
	if c.running {
		c.started = c.now()
	}
}

// PositionMillis reports the current position. It never fails; the error
// return matches player sources that can.
func (c *Clock) PositionMillis() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return uint64(c.position() / time.Millisecond), nil
}

func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

func (c *Clock) position() time.Duration {
	if !c.running {
		return c.accumulated
	}

	elapsed := c.now().Sub(c.started)
	if elapsed < 0 {
		elapsed = 0
	}
	return c.accumulated + elapsed
}
