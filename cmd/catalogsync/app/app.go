// Package app provides the application context and dependency management
// for the catalogsync CLI. It centralizes configuration, logging and the
// lifecycle of the sync client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/maryline/catalogsync"
	"github.com/maryline/catalogsync/cmd/application"
	"github.com/maryline/catalogsync/internal/history"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

var _ application.Application = (*App)(nil)

// App represents the catalogsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Default client (lazy-initialized, singleton)
	mu     sync.RWMutex
	client catalogsync.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns a sync client. Without options the default instance is
// created once and reused; with options a new instance is returned that
// the caller must close.
func (a *App) Client(opts ...catalogsync.Option) (catalogsync.Client, error) {
	if len(opts) > 0 {
		base, err := a.clientOptions()
		if err != nil {
			return nil, err
		}
		c, err := catalogsync.New(append(base, opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "with custom options", err)
		}
		return c, nil
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	base, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := catalogsync.New(base...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// History opens the run history database.
func (a *App) History() (application.History, error) {
	store, err := history.Open(a.config.HistoryDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Shutdown releases the default client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
		return err
	}
	return nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() ([]catalogsync.Option, error) {
	cfg := a.config
	sc := cfg.Sync

	scope, err := reconcile.ParseScope(sc.Scope)
	if err != nil {
		return nil, err
	}
	emptyStock, err := reconcile.ParseEmptyStockPolicy(sc.EmptyStock)
	if err != nil {
		return nil, err
	}

	opts := []catalogsync.Option{
		catalogsync.WithKeyCRM(cfg.KeyCRMBaseURL, cfg.KeyCRMToken),
		catalogsync.WithStrapi(cfg.StrapiBaseURL, cfg.StrapiToken),
		catalogsync.WithRetry(sc.MaxAttempts, sc.RetryDelay),
		catalogsync.WithRequestsPerSecond(sc.RequestsPerSecond),
		catalogsync.WithEngineOptions(
			reconcile.WithScope(scope),
			reconcile.WithBatch(sc.BatchSize, sc.BatchPause),
			reconcile.WithOfferLimit(sc.OfferLimit),
			reconcile.WithRelationOffset(sc.RelationOffset),
			reconcile.WithEmptyStock(emptyStock),
		),
	}
	if !cfg.NoHistory {
		opts = append(opts, catalogsync.WithHistory(cfg.HistoryDir))
	}
	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom default client (useful for testing).
func WithClient(c catalogsync.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
