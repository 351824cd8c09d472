package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/ticketgest/internal/pathstore"
)

// IsRetryable reports whether err wraps a pathstore.RetryableError.
func IsRetryable(err error) bool {
	var retryErr *pathstore.RetryableError
	return errors.As(err, &retryErr)
}

// RetryPolicy bounds the retries of a store write.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// DefaultRetry makes three attempts, waiting about 1s then 2s in between.
var DefaultRetry = RetryPolicy{Attempts: 3, Base: time.Second, Max: 30 * time.Second}

// Delay is the wait after failed attempt n (0-indexed): Base doubled per
// attempt and capped at Max, plus up to 50% jitter.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Base <= 0 {
		return 0
	}
	d := p.Max
	if attempt < 32 {
		if step := p.Base << attempt; step > 0 && step < p.Max {
			d = step
		}
	}
	return d + rand.N(d/2+1)
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. onRetry, if set, runs before each wait.
func (p RetryPolicy) Do(ctx context.Context, fn func() error, onRetry func(attempt int, err error)) error {
	attempts := max(p.Attempts, 1)
	var err error
	for attempt := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-time.After(p.Delay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
