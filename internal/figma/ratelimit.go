package figma

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const DefaultMinInterval = 3 * time.Second

// Limiter spaces outbound design-API calls at least one interval apart,
// process-wide. Burst 1 means the first acquisition passes immediately and
// every later one waits out the remainder of the interval since the previous
// acquisition, even across concurrent callers.
type Limiter struct {
	rl *rate.Limiter
}

func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		interval = DefaultMinInterval
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(interval), 1)}
}

func (l *Limiter) Acquire(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
