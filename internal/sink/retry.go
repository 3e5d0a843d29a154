package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const defaultRetries = 3

// retrier reruns an operation on transient connection errors with exponential
// backoff starting at two seconds.
type retrier struct {
	attempts int
	clock    clockwork.Clock
	log      *zap.Logger
}

func newRetrier(attempts int, clock clockwork.Clock, log *zap.Logger) retrier {
	if attempts < 1 {
		attempts = defaultRetries
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return retrier{attempts: attempts, clock: clock, log: log}
}

func (r retrier) do(ctx context.Context, label string, fn func() error) error {
	var lastErr error
	backoff := 2 * time.Second
	for attempt := 1; attempt <= r.attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientError(lastErr) {
			return lastErr
		}
		if attempt < r.attempts {
			r.log.Warn("Transient error, retrying",
				zap.String("operation", label),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.attempts),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			select {
			case <-r.clock.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timed out",
	"broken pipe",
	"unexpected eof",
	"i/o timeout",
	"server closed the connection unexpectedly",
	"could not connect to server",
	"the database system is starting up",
	"too many connections",
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
