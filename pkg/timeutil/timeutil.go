// Package timeutil provides clock abstractions and small time helpers.
// No external dependencies - uses only standard library.
package timeutil

import (
	"sync"
	"time"
)

// Clock returns the current instant. Business rules read time through a Clock
// so that tests can pin "now".
type Clock interface {
	Now() time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// SYSTEM CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns time.Now() in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// FIXED CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// FixedClock always returns the same instant until it is moved.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set pins the clock at t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// Days returns n days as a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// TruncateToMicro drops sub-microsecond precision so that values round-trip
// through PostgreSQL timestamptz unchanged.
func TruncateToMicro(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}
