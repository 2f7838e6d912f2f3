package engine

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryTransient runs op with bounded exponential backoff until it succeeds,
// returns a permanent error, or maxElapsed passes. Callers mark fatal errors
// with Permanent so authentication failures are never retried.
func RetryTransient(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 300 * time.Millisecond
	b.MaxInterval = 3 * time.Second
	b.MaxElapsedTime = maxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

// Permanent marks err as non-retryable for RetryTransient and PollUntil.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// PollUntil repeatedly runs op until it stops returning an error, with
// exponential backoff between polls starting at interval and capped at
// maxInterval. Unlike RetryTransient the schedule is tuned for waiting on
// asynchronous completion rather than shrugging off network blips.
func PollUntil(ctx context.Context, interval, maxInterval, maxWait time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = maxWait
	b.RandomizationFactor = 0.2
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
