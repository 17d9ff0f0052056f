// Package resilience provides retry with exponential backoff and circuit breaking
// for calls to external services.
package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds retry parameters
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig is used by clients created without explicit settings
func DefaultConfig() Config {
	return Config{MaxRetries: 3, InitialBackoff: 500 * time.Millisecond}
}

// Permanent marks an error that must not be retried
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }

func (p *Permanent) Unwrap() error { return p.Err }

// RetryWithBackoff executes fn up to MaxRetries+1 times, doubling the wait
// between attempts and adding jitter. It stops early on context cancellation
// or when fn returns a *Permanent error, which is unwrapped.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p, ok := lastErr.(*Permanent); ok {
			return p.Err
		}

		if attempt < cfg.MaxRetries {
			wait := backoff(cfg.InitialBackoff, attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}

func backoff(initial time.Duration, attempt int) time.Duration {
	d := initial << attempt
	if half := int64(d / 2); half > 0 {
		d += time.Duration(rand.Int63n(half))
	}
	return d
}

// NewCircuitBreaker opens after five requests in a window with at least 60% failures
// and probes again after timeout
func NewCircuitBreaker(name string, timeout time.Duration) *gobreaker.CircuitBreaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}
