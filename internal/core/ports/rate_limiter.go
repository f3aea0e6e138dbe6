package ports

import "context"

// RateLimiter guards login attempts with a fixed-window counter per client
// identifier. Allow mutates the counter as a side effect: a permitted call
// consumes one attempt, a denied call does not increment further.
//
// Identifiers are network-level (client IP), not account-level, so the limit
// applies before identity is known. Implementations must not lose increments
// under concurrent calls sharing an identifier.
type RateLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}
