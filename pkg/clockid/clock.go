package clockid

import "time"

// RealClock implements ports.Clock over the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FrozenClock implements ports.Clock with a caller-controlled instant,
// used by tests that need deterministic expiry/window behavior.
type FrozenClock struct {
	At time.Time
}

func (c FrozenClock) Now() time.Time { return c.At }

// Advance returns a new FrozenClock moved forward by d, leaving the
// receiver untouched.
func (c FrozenClock) Advance(d time.Duration) FrozenClock {
	return FrozenClock{At: c.At.Add(d)}
}
