// Package retry is the single bounded-retry implementation for remote calls.
package retry

import (
	"context"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
)

// Policy bounds how often and how patiently an operation is retried.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Sleep waits between attempts. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Retryable decides whether an error is worth another attempt. Nil uses errors.IsRetryable.
	Retryable func(err error) bool
}

// DefaultPolicy is three attempts with a one second delay that doubles each time.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     4 * time.Second,
	}
}

// Delay returns the wait before attempt n+1, for n starting at 1.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.InitialDelay * time.Duration(1<<(attempt-1))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or MaxAttempts is reached.
// Exhaustion is reported as TRANSPORT_FAILED wrapping the last error.
func Do[T any](ctx context.Context, p Policy, log logger.Logger, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = errors.IsRetryable
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := p.Delay(attempt)
		log.Warn("Remote call failed, retrying", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt,
			"delayMs":   delay.Milliseconds(),
			"error":     err.Error(),
		})

		if serr := sleep(ctx, delay); serr != nil {
			return zero, errors.NewTransportError(operation, serr)
		}
	}

	return zero, errors.NewRetriesExhaustedError(operation, p.MaxAttempts, lastErr)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
