// Package resilience provides failure-isolation primitives for wrapping
// operations that can fail repeatedly: a circuit breaker, retry with
// backoff, and graceful-degradation helpers.
package resilience

import (
	"sync"
	"time"

	"github.com/jgrady/netmon/internal/errors"
)

// Breaker state machine states.
type State int

const (
	// Closed is the normal state: calls pass through.
	Closed State = iota
	// Open rejects calls without invoking the wrapped operation.
	Open
	// HalfOpen allows a single trial call after the cooldown.
	HalfOpen
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Default breaker policy.
const (
	DefaultFailureThreshold = 5
	DefaultBreakerTimeout   = 30 * time.Second
)

// CircuitBreaker stops invoking a failing operation once failures reach a
// threshold, then allows a trial call after a cooldown. The Open to HalfOpen
// transition is driven purely by elapsed time since the last failure; there
// is no external reset.
type CircuitBreaker struct {
	threshold int
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithFailureThreshold sets the failure count that opens the breaker.
func WithFailureThreshold(n int) BreakerOption {
	return func(cb *CircuitBreaker) {
		if n > 0 {
			cb.threshold = n
		}
	}
}

// WithBreakerTimeout sets the cooldown before a trial call is allowed.
func WithBreakerTimeout(d time.Duration) BreakerOption {
	return func(cb *CircuitBreaker) {
		if d > 0 {
			cb.timeout = d
		}
	}
}

// WithClock substitutes the time source. For tests.
func WithClock(now func() time.Time) BreakerOption {
	return func(cb *CircuitBreaker) { cb.now = now }
}

// NewCircuitBreaker creates a breaker in the Closed state.
func NewCircuitBreaker(opts ...BreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		threshold: DefaultFailureThreshold,
		timeout:   DefaultBreakerTimeout,
		now:       time.Now,
		state:     Closed,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// Call invokes op through the breaker. When Open and still inside the
// cooldown it returns a breaker-open error without invoking op. Success
// resets the failure count and closes the breaker; failure increments the
// count, stamps the failure time, and opens the breaker at the threshold.
func (cb *CircuitBreaker) Call(op func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.lastFailure) > cb.timeout {
			cb.state = HalfOpen
		} else {
			cb.mu.Unlock()
			return errors.New(errors.ErrBreaker,
				"circuit breaker is open",
				"Wait for the cooldown to elapse before retrying")
		}
	}
	cb.mu.Unlock()

	err := op()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.failures >= cb.threshold {
			cb.state = Open
		}
		return err
	}
	cb.failures = 0
	cb.state = Closed
	return nil
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// IsBreakerOpen reports whether err is a breaker-open rejection.
func IsBreakerOpen(err error) bool {
	return errors.IsCode(err, errors.ErrBreaker)
}
