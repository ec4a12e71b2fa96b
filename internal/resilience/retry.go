package resilience

import (
	"context"
	"time"
)

// Default retry policy.
const (
	DefaultMaxRetries      = 3
	DefaultInitialDelay    = 100 * time.Millisecond
	DefaultBackoffMultiple = 1.5
)

// RetryPolicy controls how RetryWithBackoff spaces its attempts.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy returns the standard policy: up to 3 retries starting
// at 100ms, backing off by 1.5x after each failed attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		Multiplier:   DefaultBackoffMultiple,
	}
}

// RetryWithBackoff invokes op up to MaxRetries+1 times, sleeping between
// failed attempts with the delay multiplied after each one. The final
// attempt's error is returned as-is. The context cancels the wait between
// attempts, returning the last error seen.
func RetryWithBackoff(ctx context.Context, policy RetryPolicy, op func() error) error {
	delay := policy.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = DefaultBackoffMultiple
	}

	var err error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == policy.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * multiplier)
	}
	return err
}
