package core

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRetry(t *testing.T) {
	ctx := context.Background()
	netErr := NewNetworkError(errors.New("connection refused"), "reading doc")

	t.Run("recovers from transient network failures", func(t *testing.T) {
		calls := 0
		err := ReadRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return netErr
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		calls := 0
		err := ReadRetry(ctx, func() error {
			calls++
			return netErr
		})
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
		assert.Equal(t, readAttempts, calls)
	})

	t.Run("non-network errors are not retried", func(t *testing.T) {
		calls := 0
		err := ReadRetry(ctx, func() error {
			calls++
			return ErrDocAbsent
		})
		assert.Equal(t, ErrDocAbsent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("success returns immediately", func(t *testing.T) {
		calls := 0
		require.NoError(t, ReadRetry(ctx, func() error {
			calls++
			return nil
		}))
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation aborts the backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := ReadRetry(ctx, func() error {
			calls++
			return netErr
		})
		assert.Equal(t, context.Canceled, err)
		assert.Equal(t, 1, calls)
	})
}
