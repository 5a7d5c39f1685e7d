package session

import "time"

// Clock abstracts timer creation so the autosave debounce is testable
// without real sleeps.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is the subset of time.Timer the autosaver needs. Restarting a
// quiet period always discards the old timer for a fresh one, so there
// is no Reset.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// NewTimer returns a running timer.
func (SystemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }
