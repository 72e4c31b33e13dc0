// Package pacing spaces out calls to the completion service.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval between two completion calls.
const DefaultInterval = 1500 * time.Millisecond

// Gate is awaited before every network call.
type Gate interface {
	Wait(ctx context.Context) error
}

// IntervalGate admits one call per interval.
type IntervalGate struct {
	limiter *rate.Limiter
}

// NewIntervalGate returns a gate that lets one call through every
// interval. A non-positive interval never blocks.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &IntervalGate{limiter: rate.NewLimiter(limit, 1)}
}

func (g *IntervalGate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// None is a gate that never blocks.
func None() Gate { return NewIntervalGate(0) }
