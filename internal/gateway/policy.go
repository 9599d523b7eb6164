package gateway

import (
	"time"

	"github.com/maryline/catalogsync/pkg/constants"
)

// Policy decides how many times a call is attempted and how long to wait
// between attempts.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Delay is the wait after the first failed attempt.
	Delay time.Duration

	// Multiplier grows Delay on each further attempt. Values below 1 keep it fixed.
	Multiplier float64

	// MaxDelay caps the wait, including waits requested by Retry-After.
	MaxDelay time.Duration

	// Retryable reports whether an outcome may be retried.
	Retryable func(Outcome) bool
}

// RetryRateLimited retries 429 answers only.
func RetryRateLimited(o Outcome) bool {
	return o.Kind == KindRateLimited
}

// RetryRateLimitedOrTransport retries 429 answers and failed connections.
// Server errors are never retried so a sick destination cannot stall the batch.
func RetryRateLimitedOrTransport(o Outcome) bool {
	return o.Kind == KindRateLimited || o.Kind == KindTransportFailure
}

// DefaultPolicy returns the policy used by both API clients.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: constants.DefaultMaxAttempts,
		Delay:       constants.RetryBackoff,
		Multiplier:  constants.RetryMultiplier,
		MaxDelay:    constants.MaxRetryBackoff,
		Retryable:   RetryRateLimitedOrTransport,
	}
}

// Policies holds one policy per kind of call site.
type Policies struct {
	// Listing covers paginated reads.
	Listing Policy

	// Entity covers single lookups.
	Entity Policy

	// Create covers non-idempotent writes. A write whose connection failed
	// may already be committed, so only 429 answers are retried.
	Create Policy
}

// PoliciesFrom derives call site policies from base, keeping its attempt
// ceiling and backoff.
func PoliciesFrom(base Policy) Policies {
	read := base
	read.Retryable = RetryRateLimitedOrTransport
	create := base
	create.Retryable = RetryRateLimited
	return Policies{Listing: read, Entity: read, Create: create}
}

// NoRetry returns a policy that attempts a call exactly once.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// attempts returns the effective attempt ceiling.
func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// retryable reports whether o may be retried under p.
func (p Policy) retryable(o Outcome) bool {
	if o.Kind == KindSuccess {
		return false
	}
	if p.Retryable == nil {
		return RetryRateLimited(o)
	}
	return p.Retryable(o)
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p Policy) Backoff(attempt int, o Outcome) time.Duration {
	delay := p.Delay
	if p.Multiplier > 1 {
		for i := 1; i < attempt; i++ {
			delay = time.Duration(float64(delay) * p.Multiplier)
			if p.MaxDelay > 0 && delay >= p.MaxDelay {
				break
			}
		}
	}
	if o.RetryAfter > delay {
		delay = o.RetryAfter
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}
