// Package retry provides a small, explicit retry policy: a bounded number of
// attempts, a backoff function, and a predicate deciding which errors are
// worth retrying. Anything the predicate rejects aborts immediately.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetriesExhausted is returned when every permitted attempt failed with a
// retryable error. The last attempt's error is wrapped alongside it.
var ErrRetriesExhausted = errors.New("maximum retries reached")

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff returns the delay before the given retry (attempt is 1-based
	// and counts the attempt that just failed). A nil Backoff retries
	// immediately.
	Backoff func(attempt int) time.Duration
	// Retryable reports whether the error should trigger another attempt.
	// A nil Retryable never retries.
	Retryable func(err error) bool
}

// Flat returns a backoff function with a constant delay.
func Flat(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// Do runs fn until it succeeds, returns a non-retryable error, or the policy
// is exhausted. The backoff sleep respects context cancellation.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if p.Backoff != nil {
			if err := sleep(ctx, p.Backoff(attempt)); err != nil {
				return zero, err
			}
		}
	}

	return zero, errors.Join(ErrRetriesExhausted, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
