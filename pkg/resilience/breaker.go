package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by Do while the breaker is rejecting calls.
var ErrBreakerOpen = errors.New("breaker open")

const (
	defaultFailureLimit = 5
	defaultCooldown     = 30 * time.Second
)

// Breaker rejects calls after failureLimit consecutive failures. Once the
// cooldown elapses a single probe call is let through; its outcome decides
// whether the breaker closes again or stays open for another cooldown.
type Breaker struct {
	name         string
	failureLimit int
	cooldown     time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a Breaker. Zero values for failureLimit and cooldown
// select the defaults.
func NewBreaker(name string, failureLimit int, cooldown time.Duration) *Breaker {
	if failureLimit <= 0 {
		failureLimit = defaultFailureLimit
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &Breaker{
		name:         name,
		failureLimit: failureLimit,
		cooldown:     cooldown,
		logger:       slog.Default().With("component", "breaker", "name", name),
	}
}

// Do runs fn unless the breaker is open, and records the outcome.
func (b *Breaker) Do(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}

// Open reports whether the breaker is currently rejecting calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures >= b.failureLimit && time.Since(b.openedAt) < b.cooldown
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.failureLimit {
		return nil
	}
	if time.Since(b.openedAt) < b.cooldown {
		return fmt.Errorf("%w: %s", ErrBreakerOpen, b.name)
	}
	// Cooldown over; admit exactly one probe at a time.
	if b.probing {
		return fmt.Errorf("%w: %s (probe in flight)", ErrBreakerOpen, b.name)
	}
	b.probing = true
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasOpen := b.failures >= b.failureLimit
	b.probing = false

	if err == nil {
		if wasOpen {
			b.logger.Info("breaker closed")
		}
		b.failures = 0
		return
	}

	b.failures++
	if b.failures == b.failureLimit {
		b.openedAt = time.Now()
		b.logger.Warn("breaker opened", "failures", b.failures)
	} else if wasOpen {
		// Failed probe restarts the cooldown.
		b.openedAt = time.Now()
		b.logger.Warn("probe failed, breaker stays open")
	}
}
