package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze the run date via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for output naming. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// RunDate is the host-local calendar date of the run, formatted YYYY-MM-DD.
func RunDate() string {
	return clock.Now().Local().Format(time.DateOnly)
}
