package catalogsync

import (
	"net/http"
	"time"

	"github.com/maryline/catalogsync/internal/gateway"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// options holds the client configuration.
type options struct {
	keycrmURL   string
	keycrmToken string
	strapiURL   string
	strapiToken string
	httpClient  *http.Client

	maxAttempts int
	retryDelay  time.Duration
	rps         float64
	sleeper     gateway.Sleeper

	historyDir     string
	historyEnabled bool

	engine []reconcile.Option

	// overrides used instead of the HTTP clients
	source reconcile.Source
	store  reconcile.Store
}

// Option is a function that configures a Client.
type Option func(*options) error

func defaults() *options {
	return &options{
		keycrmURL:   constants.DefaultKeyCRMBase,
		strapiURL:   constants.DefaultStrapiBase,
		maxAttempts: constants.DefaultMaxAttempts,
		retryDelay:  constants.RetryBackoff,
		sleeper:     gateway.RealSleeper{},
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithKeyCRM configures the source API base URL and token.
func WithKeyCRM(baseURL, token string) Option {
	return func(o *options) error {
		if baseURL != "" {
			o.keycrmURL = baseURL
		}
		o.keycrmToken = token
		return nil
	}
}

// WithStrapi configures the destination API base URL and token. An empty
// token sends no Authorization header.
func WithStrapi(baseURL, token string) Option {
	return func(o *options) error {
		if baseURL != "" {
			o.strapiURL = baseURL
		}
		o.strapiToken = token
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for both APIs.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) error {
		o.httpClient = c
		return nil
	}
}

// WithRetry sets the attempt ceiling and base delay for rate-limited calls.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(o *options) error {
		if maxAttempts > 0 {
			o.maxAttempts = maxAttempts
		}
		if delay >= 0 {
			o.retryDelay = delay
		}
		return nil
	}
}

// WithRequestsPerSecond throttles outgoing requests per API. Zero disables it.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *options) error {
		o.rps = rps
		return nil
	}
}

// WithSleeper sets the sleeper used for retry delays and batch pauses.
func WithSleeper(s gateway.Sleeper) Option {
	return func(o *options) error {
		if s != nil {
			o.sleeper = s
		}
		return nil
	}
}

// WithHistory records every run in a SQLite database under dir. An empty
// dir uses ~/.catalogsync.
func WithHistory(dir string) Option {
	return func(o *options) error {
		o.historyEnabled = true
		o.historyDir = dir
		return nil
	}
}

// WithEngineOptions passes options through to the reconciliation engine.
func WithEngineOptions(opts ...reconcile.Option) Option {
	return func(o *options) error {
		o.engine = append(o.engine, opts...)
		return nil
	}
}

// WithSource replaces the KeyCRM client.
func WithSource(s reconcile.Source) Option {
	return func(o *options) error {
		o.source = s
		return nil
	}
}

// WithStore replaces the Strapi client.
func WithStore(s reconcile.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithoutHistory disables run recording, overriding an earlier WithHistory.
func WithoutHistory() Option {
	return func(o *options) error {
		o.historyEnabled = false
		return nil
	}
}
