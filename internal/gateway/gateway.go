// Package gateway wraps HTTP request execution with bounded retry on rate
// limiting and transport failure. It returns typed outcomes instead of
// errors for expected remote failures.
package gateway

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/maryline/catalogsync/internal/transport"
	"github.com/maryline/catalogsync/pkg/logging"
)

// Doer performs a single HTTP request. *transport.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, url string, body []byte) (*transport.Response, error)
}

// Gateway executes requests against one remote service.
type Gateway struct {
	service string
	client  Doer
	policy  Policy
	sleeper Sleeper
	limiter *rate.Limiter
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithPolicy sets the default retry policy.
func WithPolicy(p Policy) Option {
	return func(g *Gateway) {
		g.policy = p
	}
}

// WithSleeper sets the sleeper used between attempts.
func WithSleeper(s Sleeper) Option {
	return func(g *Gateway) {
		if s != nil {
			g.sleeper = s
		}
	}
}

// WithRateLimit throttles requests to rps per second with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a gateway for the named service.
func New(service string, client Doer, opts ...Option) *Gateway {
	g := &Gateway{
		service: service,
		client:  client,
		policy:  DefaultPolicy(),
		sleeper: RealSleeper{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the gateway's default policy.
func (g *Gateway) Policy() Policy {
	return g.policy
}

// Sleeper returns the gateway's sleeper.
func (g *Gateway) Sleeper() Sleeper {
	return g.sleeper
}

// Execute runs a request under the default policy.
func (g *Gateway) Execute(ctx context.Context, method, url string, body []byte) Outcome {
	return g.ExecuteWith(ctx, g.policy, method, url, body)
}

// ExecuteWith runs a request under p. It never attempts more than
// p.MaxAttempts times and stops early when ctx is done.
func (g *Gateway) ExecuteWith(ctx context.Context, p Policy, method, url string, body []byte) Outcome {
	log := logging.FromContext(ctx)
	maxAttempts := p.attempts()

	for attempt := 1; ; attempt++ {
		var out Outcome
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				out = Outcome{Kind: KindTransportFailure, Cause: err}
				return g.finish(out, attempt, method, url)
			}
		}

		resp, err := g.client.Do(ctx, method, url, body)
		out = g.finish(classify(resp, err), attempt, method, url)

		if out.OK() {
			return out
		}
		if ctx.Err() != nil {
			out.Cause = ctx.Err()
			return out
		}
		if !p.retryable(out) {
			if out.Kind == KindServerError {
				log.Warn().
					Str("service", g.service).
					Str("method", method).
					Str("url", url).
					Int("status", out.Status).
					Msg("Server error, not retrying")
			}
			return out
		}
		if attempt >= maxAttempts {
			log.Warn().
				Str("service", g.service).
				Str("method", method).
				Str("url", url).
				Str("outcome", out.Kind.String()).
				Int("attempts", attempt).
				Msg("Retry ceiling reached")
			return out
		}

		delay := p.Backoff(attempt, out)
		log.Debug().
			Str("service", g.service).
			Str("url", url).
			Str("outcome", out.Kind.String()).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Retrying request")

		if err := g.sleeper.Sleep(ctx, delay); err != nil {
			out.Cause = err
			return out
		}
	}
}

func (g *Gateway) finish(out Outcome, attempt int, method, url string) Outcome {
	out.Attempts = attempt
	out.Service = g.service
	out.Method = method
	out.URL = url
	return out
}
