// Package resilience provides the fault-tolerance primitives the service
// uses when talking to external systems: exponential-backoff retry and a
// circuit breaker.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy describes how often and how patiently an operation is retried.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetry is the policy used for startup connections to Postgres and
// Redis.
var DefaultRetry = RetryPolicy{
	Attempts:  5,
	BaseDelay: 200 * time.Millisecond,
	MaxDelay:  5 * time.Second,
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is
// cancelled. Backoff doubles per attempt with full jitter, capped at
// MaxDelay.
func (p RetryPolicy) Do(ctx context.Context, name string, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultRetry.Attempts
	}
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultRetry.BaseDelay
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultRetry.MaxDelay
	}

	log := slog.Default().With("component", "retry", "operation", name)

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				log.Info("succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt >= attempts {
			return fmt.Errorf("%s: giving up after %d attempts: %w", name, attempts, err)
		}

		ceiling := base << (attempt - 1)
		if ceiling > maxDelay || ceiling <= 0 {
			ceiling = maxDelay
		}
		delay := time.Duration(rand.Int63n(int64(ceiling)) + 1)
		log.Warn("attempt failed, backing off",
			"attempt", attempt,
			"attempts", attempts,
			"delay", delay,
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: retry cancelled: %w", name, ctx.Err())
		}
	}
}
