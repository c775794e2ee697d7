// Package scheduler services the cooperative callback queue while the host
// event loop has nothing else to do.
package scheduler

import (
	"fmt"
	"time"

	"github.com/reglet-dev/portcfg/internal/domain"
)

// QuantumFlag is the flag that configures the idle sleep quantum.
const QuantumFlag = "scheduler.idle_quantum_us"

// DrainFunc runs pending scheduled callbacks. With blocking set, it runs
// every callback pending at call time before returning.
type DrainFunc func(blocking bool)

// Policy describes how the idle hook drains and sleeps. A Policy exists only
// when cooperative scheduling is enabled.
type Policy struct {
	Drain   DrainFunc
	Quantum time.Duration
	Enabled bool
}

// NewPolicy validates the quantum against the host sleep granularity. Host
// sleeps shorter than the granularity round down to a non-blocking yield, so
// such a quantum would spin instead of waiting.
func NewPolicy(quantum, granularity time.Duration, drain DrainFunc) (*Policy, error) {
	if quantum <= 0 {
		return nil, domain.NewConfigurationError(domain.AspectScheduler, QuantumFlag,
			fmt.Sprintf("idle quantum must be greater than zero, got %s", quantum), nil)
	}
	if quantum < granularity {
		return nil, domain.NewConfigurationError(domain.AspectScheduler, QuantumFlag,
			fmt.Sprintf("idle quantum %s is below the host sleep granularity %s and would round to a no-op",
				quantum, granularity), nil)
	}
	if drain == nil {
		drain = func(bool) {}
	}
	return &Policy{Enabled: true, Drain: drain, Quantum: quantum}, nil
}
