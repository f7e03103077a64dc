// Package resilience provides the bounded retry policy used around calls to
// unreliable external services such as the geocoder.
package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retry behavior with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first try).
	// A value of 1 means no retries. Default: 3.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration. Default: 30s.
	MaxBackoff time.Duration

	// Multiplier scales the backoff after each attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction adds random jitter as a fraction of the computed delay
	// (0.0 = no jitter, 0.5 = ±50%). Default: 0.
	JitterFraction float64

	// ShouldRetry decides whether an error is worth another attempt.
	// If nil, IsTransient is used.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with the attempt that just
	// failed (1-based), the error, and the delay about to be waited.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig returns the 3-attempt 1s/2s schedule with no jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
	}
}

// RetryAlways is a ShouldRetry predicate that treats every error as retryable.
func RetryAlways(error) bool { return true }

// Attempt reports how a retried call ended.
type Attempt[T any] struct {
	Value    T
	Attempts int
	Err      error
}

// OK reports whether the call eventually succeeded.
func (a Attempt[T]) OK() bool { return a.Err == nil }

// DoVal executes fn until it succeeds, the error is not retryable, attempts
// run out, or ctx is done. The last error is returned in the Attempt rather
// than panicking or escaping as control flow.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) Attempt[T] {
	cfg = applyDefaults(cfg)

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var out Attempt[T]
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		out.Attempts = attempt + 1
		val, err := fn(ctx)
		if err == nil {
			out.Value = val
			out.Err = nil
			return out
		}
		out.Err = err

		if ctx.Err() != nil || !shouldRetry(err) {
			return out
		}

		// No sleep after the last attempt.
		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		delay := computeBackoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out
		case <-timer.C:
		}
	}

	return out
}

// Schedule returns the waits DoVal performs between attempts when every
// attempt fails, ignoring jitter. For the default config this is [1s, 2s].
func Schedule(cfg RetryConfig) []time.Duration {
	cfg = applyDefaults(cfg)
	cfg.JitterFraction = 0

	delays := make([]time.Duration, 0, cfg.MaxAttempts-1)
	for attempt := 0; attempt < cfg.MaxAttempts-1; attempt++ {
		delays = append(delays, computeBackoff(attempt, cfg))
	}
	return delays
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.JitterFraction < 0 {
		cfg.JitterFraction = 0
	}
	return cfg
}

func computeBackoff(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}

	if cfg.JitterFraction > 0 {
		jitterRange := delay * cfg.JitterFraction
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// RetryLogger returns an OnRetry callback that logs each retry at info level.
func RetryLogger(service, operation string, fields ...zap.Field) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		zap.L().Info("retrying operation",
			append([]zap.Field{
				zap.String("service", service),
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.String("failure", Classify(err)),
				zap.Duration("wait", delay),
				zap.Error(err),
			}, fields...)...,
		)
	}
}
