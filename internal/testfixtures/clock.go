package testfixtures

import (
	"sync"
	"time"

	"github.com/example/staff-calendar/internal/calendar"
)

// Clock provides a controllable time source for tests.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock initialised to the supplied time. When start is the
// zero value, the shared ReferenceTime is used.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current instant tracked by the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now as a function suitable for dependency injection.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set updates the clock to the provided time.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// SetTimestamp moves the clock to a record timestamp such as "03/13/2024 2:07PM".
func (c *Clock) SetTimestamp(ts string) error {
	t, err := calendar.ParseTimestamp(ts)
	if err != nil {
		return err
	}
	c.Set(t)
	return nil
}

// Advance moves the clock forward by the provided duration and returns the
// updated time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}

// Timestamp renders the current instant the way services default record times.
func (c *Clock) Timestamp() string {
	return calendar.FormatTimestamp(calendar.Naive(c.Now()))
}

// Week returns the start of the week containing the current instant.
func (c *Clock) Week() time.Time {
	return calendar.WeekStartOf(calendar.Naive(c.Now()))
}
