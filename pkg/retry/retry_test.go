package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelay_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	retries := 0
	policy := NewFixedDelay(&Config{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		OnRetry:     func(int, time.Duration, error) { retries++ },
	})

	err := policy.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestFixedDelay_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	policy := NewFixedDelay(&Config{MaxAttempts: 5, BaseDelay: time.Millisecond})

	err := policy.Execute(context.Background(), func(context.Context) error {
		calls++
		return errors.New("password authentication failed")
	})

	require.Error(t, err)
	assert.False(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 1, calls)
}

func TestFixedDelay_AlwaysRetriesUntilExhausted(t *testing.T) {
	calls := 0
	cause := errors.New("password authentication failed")
	policy := NewFixedDelay(&Config{MaxAttempts: 3, BaseDelay: time.Millisecond, Retryable: Always})

	err := policy.Execute(context.Background(), func(context.Context) error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.True(t, IsMaxRetriesExceeded(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, calls)
}

func TestExecute_HonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := NewFixedDelay(&Config{
		MaxAttempts: 10,
		BaseDelay:   time.Hour,
		Retryable:   Always,
		OnRetry:     func(int, time.Duration, error) { cancel() },
	})

	err := policy.Execute(ctx, func(context.Context) error { return errors.New("down") })

	assert.ErrorIs(t, err, context.Canceled)
}
