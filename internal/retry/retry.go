package retry

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// Config bounds the retry loop.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns the retry bounds used for outbound API calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      2,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// delay computes the exponential backoff for the given completed attempt.
func (c Config) delay(attempt int) time.Duration {
	d := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// ShouldRetry decides whether a failed attempt is worth repeating.
type ShouldRetry func(err error, statusCode int, body []byte) bool

// Func is one attempt of the operation being retried.
type Func func(attempt int) (result any, statusCode int, body []byte, err error)

// Options configures one retried operation.
type Options struct {
	Config      Config
	ShouldRetry ShouldRetry
	Logger      *zap.Logger
	Name        string
}

// Execute runs fn until it succeeds, the error is not retryable, or the
// retry budget is exhausted. The delay between attempts honors context
// cancellation.
func Execute(ctx context.Context, opts Options, fn Func) (any, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			d := opts.Config.delay(attempt - 1)
			logger.Debug("retrying request",
				zap.String("api", opts.Name),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", d))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d):
			}
		}

		result, status, body, err := fn(attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if opts.ShouldRetry == nil || !opts.ShouldRetry(err, status, body) {
			return nil, err
		}
		logger.Warn("request failed, will retry",
			zap.String("api", opts.Name),
			zap.Int("attempt", attempt+1),
			zap.Int("status", status),
			zap.Error(err))
	}

	return nil, lastErr
}
