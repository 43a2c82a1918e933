package dataset

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls how transient fetch failures are retried.
type RetryConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	Jitter            bool
}

// DefaultRetry is used for remote sources.
var DefaultRetry = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      1 * time.Second,
	MaxDelay:          30 * time.Second,
	BackoffMultiplier: 2.0,
	Jitter:            true,
}

// delay returns the wait before attempt+1, given attempt failures so far.
func (c RetryConfig) delay(attempt int) time.Duration {
	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(c.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		d = c.MaxDelay
	}
	if c.Jitter {
		// +/-5%
		d += time.Duration(float64(d) * 0.1 * (rand.Float64() - 0.5))
	}
	return d
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// transient marks err as worth retrying: network failures, 5xx and 429.
func transient(err error) error { return &transientError{err: err} }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

func withRetry(ctx context.Context, cfg RetryConfig, logger *zap.Logger, fetch func() (io.ReadCloser, error)) (io.ReadCloser, error) {
	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 1; ; attempt++ {
		rc, err := fetch()
		if err == nil {
			return rc, nil
		}
		if attempt >= attempts || !isTransient(err) {
			return nil, err
		}
		wait := cfg.delay(attempt)
		logger.Warn("fetch failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}
