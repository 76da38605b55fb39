package geo

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces geocode calls. Wait blocks until the next call may start.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewLimiter returns a token bucket allowing one call per interval with a
// burst of one. A zero interval disables spacing.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
