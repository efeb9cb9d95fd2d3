// internal/session/clock.go
//
// Time source for session ticking.
//   - RealClock: wall time, used in production.
//   - FakeClock: manually advanced, used by tests to drive engine timers.

package session

import (
	"sync"
	"time"
)

// Clock is the wall-clock source that drives engine timers.
type Clock interface {
	Now() time.Time
}

// RealClock reads time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly. Safe for concurrent use.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFakeClock returns a clock stopped at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
