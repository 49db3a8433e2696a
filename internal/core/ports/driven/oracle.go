package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// Oracle obtains corrections for a single chunk from an external service.
type Oracle interface {
	// Correct sends the chunk and returns the parsed outcome.
	// A transport failure that survives the retry policy is returned
	// as *domain.OracleError.
	Correct(ctx context.Context, chunk domain.Chunk) (domain.OracleOutcome, error)

	// Protocol reports which response shape the oracle requests.
	Protocol() domain.Protocol
}

// RateLimiter throttles outbound oracle calls.
type RateLimiter interface {
	// Wait blocks until a call may proceed or ctx is done.
	Wait(ctx context.Context) error

	// RetryAfter pauses all callers for at least d.
	RetryAfter(d time.Duration)
}
