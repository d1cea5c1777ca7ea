// Package retry wraps cenkalti/backoff with the bounded-retry policy
// shared by the storefront crawler and the index upserter.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config controls a bounded exponential backoff loop.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps the backoff delay.
	MaxInterval time.Duration
	// Retryable classifies errors; a nil classifier retries everything.
	Retryable func(error) bool
}

// DefaultConfig returns the policy used across the pipeline.
func DefaultConfig(maxRetries int, retryable func(error) bool) Config {
	return Config{
		MaxRetries:      uint64(maxRetries),
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Retryable:       retryable,
	}
}

// Do runs op, retrying transient failures with exponential backoff until
// it succeeds, the retry budget is spent, or ctx is cancelled. An error
// rejected by the classifier stops the loop immediately.
func Do(ctx context.Context, cfg Config, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		bo.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		bo.MaxInterval = cfg.MaxInterval
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, cfg.MaxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
