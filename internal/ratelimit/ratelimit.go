// Package ratelimit enforces the message quota of the public, unauthenticated
// chat. Quotas are keyed by client identifier (the caller's IP address).
//
// The default MemoryLimiter keeps its counters in process memory: quotas are
// per process and start over on restart. RedisLimiter shares counters between
// instances when an operator configures it.
package ratelimit

import "context"

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed bool
	// Remaining is the number of messages still allowed in the current window.
	Remaining int
}

// Limiter checks a client's quota and consumes one message when allowed.
// A denied check does not consume anything.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (Decision, error)
}
