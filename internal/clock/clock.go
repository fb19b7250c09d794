// Package clock abstracts time operations for testability. Production
// code injects Real(); tests inject a Fake with deterministic control
// over the current time. Code that inspects token expiry or paces
// retry loops should take a Clock instead of calling the time package
// directly.
package clock

import "time"

// Clock supplies the current time and a sleep primitive.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses the calling goroutine for at least duration d.
	Sleep(d time.Duration)
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
