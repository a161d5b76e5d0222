package figma

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 2 * time.Second

	// Server-declared waits shorter than this are considered unreliable and
	// fall back to exponential backoff.
	minTrustedRetryAfter = time.Second
)

// Retrier re-runs a fallible upstream call when the failure is rate limiting.
// A tagged RetryAfter of at least one second is honored exactly; anything
// else classified as a 429 backs off at BaseDelay << attempt. All other
// errors propagate immediately.
type Retrier struct {
	MaxRetries int
	BaseDelay  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier() *Retrier {
	return &Retrier{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		sleep:      sleepCtx,
	}
}

func (r *Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	var last error
	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		last = err

		delay, retryable := classify(err, r.BaseDelay, attempt)
		if !retryable {
			return err
		}
		if attempt == r.MaxRetries-1 {
			break
		}
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return last
}

func classify(err error, baseDelay time.Duration, attempt int) (time.Duration, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindRateLimited {
		if apiErr.RetryAfter >= minTrustedRetryAfter {
			return apiErr.RetryAfter, true
		}
		return baseDelay << attempt, true
	}
	if strings.Contains(err.Error(), "429") {
		return baseDelay << attempt, true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
