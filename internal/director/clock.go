package director

import "time"

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock is a manually advanced clock for tests and headless runs.
type FakeClock struct {
	t time.Time
}

func NewFakeClock(t time.Time) *FakeClock { return &FakeClock{t: t} }

func (c *FakeClock) Now() time.Time          { return c.t }
func (c *FakeClock) Set(t time.Time)         { c.t = t }
func (c *FakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
