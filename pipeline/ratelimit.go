package pipeline

import (
	"context"
	"sync"

	"github.com/fwojciec/trialsum"
	"golang.org/x/time/rate"
)

var _ trialsum.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond paces batch runs against a single journal host.
const DefaultRequestsPerSecond = 0.5

// DomainLimiter provides per-domain rate limiting using token buckets.
// Batch runs against different journals proceed concurrently while runs
// against the same journal are spaced out.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests
// per second limit. Each domain gets its own limiter with a burst of 1.
// A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
