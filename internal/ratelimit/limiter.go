// Package ratelimit throttles the unauthenticated endpoints (register and
// login) per client key, usually the client IP.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more request from key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Options is a token-bucket shape: RPS is the sustained rate and Burst the
// bucket size. Enabled reports whether the options describe a limit at all.
type Options struct {
	RPS   float64
	Burst int
}

func (o Options) Enabled() bool {
	return o.RPS > 0 && o.Burst > 0
}

// window is the span over which Burst requests are allowed when the
// bucket is approximated as a fixed-size sliding window.
func (o Options) window() time.Duration {
	return time.Duration(float64(o.Burst) / o.RPS * float64(time.Second))
}
