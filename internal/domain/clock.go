package domain

import "github.com/jonboulle/clockwork"

// clock stamps processed_at on enriched media events. Tests freeze it with SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the package time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
