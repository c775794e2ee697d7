package scheduler

import (
	"context"
	"sync/atomic"
	"time"
)

// State is the idle hook state.
type State int32

const (
	Idle State = iota
	Draining
)

// String returns the string representation
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Draining:
		return "draining"
	default:
		return "unknown"
	}
}

// Sleeper suspends the calling thread.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper.
type SleeperFunc func(d time.Duration)

// Sleep calls f(d).
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// Hook is the idle-poll entry point. The host event loop calls Poll whenever
// it has no immediate work.
type Hook struct {
	policy  *Policy
	sleeper Sleeper
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
	state        atomic.Int32
	polls        atomic.Uint64
}

// NewHook binds a copy of the policy to a host sleeper.
func NewHook(policy *Policy, sleeper Sleeper) *Hook {
	if sleeper == nil {
		sleeper = SleeperFunc(time.Sleep)
	}
	p := *policy
	return &Hook{policy: &p, sleeper: sleeper}
}

// State returns the current state.
func (h *Hook) State() State {
	return State(h.state.Load())
}

// Polls returns how many times Poll has completed.
func (h *Hook) Polls() uint64 {
	return h.polls.Load()
}

// Poll drains pending callbacks in blocking mode, sleeps one quantum and
// returns to Idle.
func (h *Hook) Poll() {
	h.transition(Draining)
	h.policy.Drain(true)
	h.sleeper.Sleep(h.policy.Quantum)
	h.transition(Idle)
	h.polls.Add(1)
}

// RunUntil polls until ready reports external work or ctx ends. It returns
// ctx.Err() when the context stopped the loop.
func (h *Hook) RunUntil(ctx context.Context, ready func() bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ready != nil && ready() {
			return nil
		}
		h.Poll()
	}
}

func (h *Hook) transition(to State) {
	from := State(h.state.Swap(int32(to)))
	if h.OnTransition != nil && from != to {
		h.OnTransition(from, to)
	}
}
