package oracle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// Ensure RateLimiter implements the interface.
var _ driven.RateLimiter = (*RateLimiter)(nil)

// DefaultRetryAfter is the pause applied when a 429 carries no Retry-After header.
const DefaultRetryAfter = 5 * time.Second

// RateLimiter throttles oracle calls with a token bucket and honours
// server-requested pauses. One limiter is shared by every analysis in the process.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing rps calls per second with the given burst.
// A non-positive rps disables the token bucket; pauses still apply.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a call may proceed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RetryAfter pauses all callers for d. A zero d applies DefaultRetryAfter.
// An earlier pause is never shortened.
func (r *RateLimiter) RetryAfter(d time.Duration) {
	if d <= 0 {
		d = DefaultRetryAfter
	}
	until := time.Now().Add(d)

	r.mu.Lock()
	defer r.mu.Unlock()
	if until.After(r.retryAt) {
		r.retryAt = until
	}
}
