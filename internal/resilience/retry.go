package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff controls how many times and how slowly an operation is retried.
type Backoff struct {
	// Attempts is the total number of tries. 1 disables retries.
	Attempts int
	Initial  time.Duration
	Max      time.Duration
	// Jitter randomizes each delay by up to this fraction (0.25 = ±25%).
	Jitter float64
}

// DefaultBackoff is used for any zero field.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Initial:  500 * time.Millisecond,
		Max:      10 * time.Second,
		Jitter:   0.25,
	}
}

// NewBackoff builds a Backoff from config values. Non-positive values keep
// the defaults.
func NewBackoff(attempts, initialMs int) Backoff {
	b := DefaultBackoff()
	if attempts > 0 {
		b.Attempts = attempts
	}
	if initialMs > 0 {
		b.Initial = time.Duration(initialMs) * time.Millisecond
	}
	return b
}

func (b Backoff) normalized() Backoff {
	d := DefaultBackoff()
	if b.Attempts <= 0 {
		b.Attempts = d.Attempts
	}
	if b.Initial <= 0 {
		b.Initial = d.Initial
	}
	if b.Max <= 0 {
		b.Max = d.Max
	}
	if b.Jitter < 0 {
		b.Jitter = 0
	}
	return b
}

// delay is the wait before retry n (0-based), doubling each time.
func (b Backoff) delay(n int) time.Duration {
	d := float64(b.Initial) * math.Pow(2, float64(n))
	if d > float64(b.Max) {
		d = float64(b.Max)
	}
	if b.Jitter > 0 {
		d += d * b.Jitter * (2*rand.Float64() - 1) //nolint:gosec // jitter only
	}
	return time.Duration(max(d, 0))
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// It returns the last error. op names the operation in retry logs.
func Do(ctx context.Context, b Backoff, op string, fn func(ctx context.Context) error) error {
	b = b.normalized()

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || ctx.Err() != nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}

		wait := b.delay(attempt - 1)
		zap.L().Warn("retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
