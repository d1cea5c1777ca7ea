package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig(maxRetries uint64, retryable func(error) bool) Config {
	return Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Retryable:       retryable,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), testConfig(3, nil), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	terminal := errors.New("terminal")
	attempts := 0
	err := Do(context.Background(), testConfig(5, func(err error) bool {
		return !errors.Is(err, terminal)
	}), func() error {
		attempts++
		return terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsRetryBudget(t *testing.T) {
	transient := errors.New("still failing")
	attempts := 0
	err := Do(context.Background(), testConfig(2, nil), func() error {
		attempts++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, attempts) // first attempt + two retries
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, testConfig(10, nil), func() error {
		attempts++
		cancel()
		return errors.New("transient")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 2)
}
