package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")

func failing(calls *int) func() error {
	return func() error {
		*calls++
		return errBoom
	}
}

func succeeding(calls *int) func() error {
	return func() error {
		*calls++
		return nil
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := NewCircuitBreaker(WithFailureThreshold(2), WithClock(clock.now))

	var calls int
	require.Error(t, cb.Call(failing(&calls)))
	assert.Equal(t, Closed, cb.State(), "one failure below threshold stays closed")

	require.Error(t, cb.Call(failing(&calls)))
	assert.Equal(t, Open, cb.State())
	assert.Equal(t, 2, calls)
}

func TestBreakerRejectsWithoutInvoking(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := NewCircuitBreaker(WithFailureThreshold(2), WithClock(clock.now))

	var calls int
	cb.Call(failing(&calls))
	cb.Call(failing(&calls))
	require.Equal(t, Open, cb.State())

	err := cb.Call(failing(&calls))
	require.Error(t, err)
	assert.True(t, IsBreakerOpen(err))
	assert.Equal(t, 2, calls, "rejected call must not invoke the operation")
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := NewCircuitBreaker(
		WithFailureThreshold(2),
		WithBreakerTimeout(10*time.Second),
		WithClock(clock.now),
	)

	var calls int
	cb.Call(failing(&calls))
	cb.Call(failing(&calls))
	require.Equal(t, Open, cb.State())

	// Cooldown not yet elapsed: still rejecting.
	clock.advance(5 * time.Second)
	assert.True(t, IsBreakerOpen(cb.Call(succeeding(&calls))))

	// Past the cooldown: the trial call goes through and success closes.
	clock.advance(6 * time.Second)
	require.NoError(t, cb.Call(succeeding(&calls)))
	assert.Equal(t, Closed, cb.State())
	assert.Zero(t, cb.Failures())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := NewCircuitBreaker(
		WithFailureThreshold(1),
		WithBreakerTimeout(time.Second),
		WithClock(clock.now),
	)

	var calls int
	cb.Call(failing(&calls))
	require.Equal(t, Open, cb.State())

	clock.advance(2 * time.Second)
	require.Error(t, cb.Call(failing(&calls)))
	assert.Equal(t, Open, cb.State(), "trial failure must reopen the breaker")
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(WithFailureThreshold(3))

	var calls int
	cb.Call(failing(&calls))
	cb.Call(failing(&calls))
	require.Equal(t, 2, cb.Failures())

	require.NoError(t, cb.Call(succeeding(&calls)))
	assert.Zero(t, cb.Failures())
	assert.Equal(t, Closed, cb.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
