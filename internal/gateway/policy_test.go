package gateway

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffSchedule(t *testing.T) {
	p := Policy{Delay: time.Second, Multiplier: 2, MaxDelay: 5 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Backoff(tt.attempt, Outcome{}), "attempt %d", tt.attempt)
	}
}

func TestBackoffFixedDelay(t *testing.T) {
	p := Policy{Delay: 3 * time.Second}
	assert.Equal(t, 3*time.Second, p.Backoff(1, Outcome{}))
	assert.Equal(t, 3*time.Second, p.Backoff(6, Outcome{}))
}

func TestBackoffRetryAfterCapped(t *testing.T) {
	p := Policy{Delay: time.Second, MaxDelay: 10 * time.Second}
	assert.Equal(t, 10*time.Second, p.Backoff(1, Outcome{RetryAfter: time.Minute}))
}

func TestPolicyAttemptsFloor(t *testing.T) {
	assert.Equal(t, 1, Policy{}.attempts())
	assert.Equal(t, 1, NoRetry().attempts())
	assert.Equal(t, 7, Policy{MaxAttempts: 7}.attempts())
}

func TestRetryablePredicates(t *testing.T) {
	assert.True(t, RetryRateLimited(Outcome{Kind: KindRateLimited}))
	assert.False(t, RetryRateLimited(Outcome{Kind: KindTransportFailure}))
	assert.True(t, RetryRateLimitedOrTransport(Outcome{Kind: KindTransportFailure}))
	assert.False(t, RetryRateLimitedOrTransport(Outcome{Kind: KindServerError}))

	// nil predicate falls back to rate-limit only
	assert.True(t, Policy{}.retryable(Outcome{Kind: KindRateLimited}))
	assert.False(t, Policy{}.retryable(Outcome{Kind: KindClientError}))
	assert.False(t, DefaultPolicy().retryable(Outcome{Kind: KindSuccess}))
}

func TestPoliciesFrom(t *testing.T) {
	base := Policy{MaxAttempts: 4, Delay: time.Second, Multiplier: 2, MaxDelay: time.Minute}
	ps := PoliciesFrom(base)

	for name, p := range map[string]Policy{"listing": ps.Listing, "entity": ps.Entity, "create": ps.Create} {
		assert.Equal(t, 4, p.MaxAttempts, name)
		assert.Equal(t, time.Second, p.Delay, name)
		assert.True(t, p.retryable(Outcome{Kind: KindRateLimited}), name)
	}

	assert.True(t, ps.Listing.retryable(Outcome{Kind: KindTransportFailure}))
	assert.True(t, ps.Entity.retryable(Outcome{Kind: KindTransportFailure}))
	assert.False(t, ps.Create.retryable(Outcome{Kind: KindTransportFailure}))
	assert.False(t, ps.Create.retryable(Outcome{Kind: KindServerError}))
}

func TestRetryAfterParsing(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, retryAfter(h))
	h.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, retryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
	assert.Zero(t, retryAfter(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rate_limited", KindRateLimited.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
