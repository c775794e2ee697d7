// Package host adapts the operating system's blocking primitives to the
// scheduler hooks used by a resolved configuration.
package host

import (
	"runtime"
	"time"
)

// DefaultGranularity is the shortest sleep the host honors.
const DefaultGranularity = time.Millisecond

// Sleeper blocks the calling goroutine for at least the requested duration.
// Requests below the granularity yield instead of sleeping.
type Sleeper struct {
	sleep       func(time.Duration)
	yield       func()
	granularity time.Duration
}

// NewSleeper creates a sleeper with the given granularity.
// A non-positive granularity falls back to DefaultGranularity.
func NewSleeper(granularity time.Duration) *Sleeper {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	return &Sleeper{
		sleep:       time.Sleep,
		yield:       runtime.Gosched,
		granularity: granularity,
	}
}

// Sleep implements ports.HostScheduler and scheduler.Sleeper.
func (s *Sleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if d < s.granularity {
		s.yield()
		return
	}
	s.sleep(d)
}

// Granularity returns the shortest sleep that actually blocks.
func (s *Sleeper) Granularity() time.Duration {
	return s.granularity
}
