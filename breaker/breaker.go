// Package breaker wraps SCC engine invocation in a gobreaker circuit
// breaker, protecting against the one failure mode package dispatch sees
// repeatedly: a host calling Find again and again against a graph that
// keeps failing allocation.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wyfcoding/scc/metrics"
)

// ErrOpen is returned when the breaker is open and rejecting calls.
var ErrOpen = errors.New("breaker: circuit open, engine invocation rejected")

// Settings configures a Breaker.
type Settings struct {
	Name string
	// FailureRatio is the fraction of requests counted since the breaker
	// last entered the closed state that must fail before it trips. Zero
	// selects 0.5.
	FailureRatio float64
	// MinRequests is the minimum sample size ReadyToTrip considers. Zero
	// selects 5.
	MinRequests uint32
	// OpenTimeout is how long the breaker stays open before probing with a
	// half-open request. Zero selects 30s.
	OpenTimeout time.Duration
}

// Breaker guards a func() (any, error)-shaped call passed to Execute. A nil
// *Breaker, or one built by Disabled, always executes fn directly.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
	m  *metrics.Metrics
}

// New builds a Breaker from Settings, recording state transitions to m (nil
// is accepted — instrumentation is optional).
func New(st Settings, m *metrics.Metrics) *Breaker {
	failureRatio := st.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}
	minRequests := st.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	openTimeout := st.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	b := &Breaker{m: m}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    st.Name,
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= minRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if b.m != nil {
				b.m.SetBreakerState(name, stateValue(to))
			}
		},
	})
	return b
}

// Disabled returns a Breaker that always executes fn with no trip logic;
// used when config.DispatchConfig.BreakerEnabled is false.
func Disabled() *Breaker {
	return &Breaker{}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}

// Execute runs fn under the breaker's protection. If the breaker is open, it
// returns ErrOpen without calling fn.
func (b *Breaker) Execute(_ context.Context, fn func() (any, error)) (any, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	result, err := b.cb.Execute(fn)
	if err != nil && errors.Is(err, gobreaker.ErrOpenState) {
		return nil, ErrOpen
	}
	return result, err
}

// State returns the breaker's current gobreaker.State, or StateClosed for a
// disabled breaker.
func (b *Breaker) State() gobreaker.State {
	if b == nil || b.cb == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}
