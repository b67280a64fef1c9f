package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds how often a model call is retried
type RetryPolicy struct {
	Attempts        uint
	InitialInterval time.Duration
}

// DefaultRetry waits 1s then 2s between three attempts
var DefaultRetry = RetryPolicy{Attempts: 3, InitialInterval: time.Second}

// Retry runs op with exponential backoff until it succeeds, returns a Permanent
// error, the attempts run out or ctx is done.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0

	attempts := policy.Attempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Model call failed, retrying", "error", err, "next_attempt_in", next)
		}),
	)
}

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	return backoff.Permanent(err)
}
