package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		Multiplier:   1.5,
	}
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := RetryWithBackoff(context.Background(), fastPolicy(3), op)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	wantErr := errors.New("persistent")
	op := func() error {
		attempts++
		return wantErr
	}

	err := RetryWithBackoff(context.Background(), fastPolicy(2), op)
	require.ErrorIs(t, err, wantErr, "final attempt's error returned as-is")
	assert.Equal(t, 3, attempts, "max_retries+1 total attempts")
}

func TestRetryImmediateSuccess(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), fastPolicy(3), func() error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	wantErr := errors.New("transient")

	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return wantErr
	}

	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Hour, Multiplier: 1.5}
	err := RetryWithBackoff(ctx, policy, op)
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, attempts, "cancellation must cut the backoff sleep short")
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, p.InitialDelay)
	assert.Equal(t, 1.5, p.Multiplier)
}
