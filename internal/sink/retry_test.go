package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsTransientError(t *testing.T) {
	assert.False(t, isTransientError(nil))
	assert.True(t, isTransientError(errors.New("dial tcp: Connection Refused")))
	assert.True(t, isTransientError(errors.New("FATAL: the database system is starting up")))
	assert.False(t, isTransientError(errors.New("password authentication failed")))
}

func TestRetrier(t *testing.T) {
	t.Run("permanent error returns immediately", func(t *testing.T) {
		r := newRetrier(3, clockwork.NewFakeClock(), zap.NewNop())
		calls := 0
		err := r.do(t.Context(), "connect", func() error {
			calls++
			return errors.New("password authentication failed")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("transient error retries with backoff", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		r := newRetrier(3, clock, zap.NewNop())

		calls := 0
		done := make(chan error, 1)
		go func() {
			done <- r.do(t.Context(), "connect", func() error {
				calls++
				if calls < 3 {
					return errors.New("connection reset by peer")
				}
				return nil
			})
		}()

		require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
		clock.Advance(2 * time.Second)
		require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
		clock.Advance(4 * time.Second)

		require.NoError(t, <-done)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		r := newRetrier(1, clockwork.NewFakeClock(), zap.NewNop())
		boom := errors.New("i/o timeout")
		err := r.do(t.Context(), "connect", func() error { return boom })
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "after 1 attempts")
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		clock := clockwork.NewFakeClock()
		r := newRetrier(3, clock, zap.NewNop())

		done := make(chan error, 1)
		go func() {
			done <- r.do(ctx, "connect", func() error { return errors.New("broken pipe") })
		}()
		require.NoError(t, clock.BlockUntilContext(t.Context(), 1))
		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("defaults", func(t *testing.T) {
		r := newRetrier(0, nil, zap.NewNop())
		assert.Equal(t, defaultRetries, r.attempts)
		assert.NotNil(t, r.clock)
	})
}
