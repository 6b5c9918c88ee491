package onboarding

import "time"

// Timer is a cancellable scheduled task handle.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// task from firing.
	Stop() bool
}

// Clock schedules deferred tasks. The checker and the verification
// channel own at most one outstanding handle each; tests substitute a
// fake to drive timing deterministically.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock is the real-time Clock.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
