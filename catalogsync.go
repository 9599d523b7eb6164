// Package catalogsync mirrors a KeyCRM product catalog into a Strapi
// content store.
//
// A Client wires the KeyCRM and Strapi HTTP clients behind a retrying
// gateway, runs the reconciliation engine and optionally records each run
// in a local history database.
//
// Example usage:
//
//	cs, err := catalogsync.New(
//	    catalogsync.WithKeyCRM("", os.Getenv("KEYCRM_TOKEN")),
//	    catalogsync.WithStrapi("https://cms.example.com", os.Getenv("STRAPI_TOKEN")),
//	    catalogsync.WithHistory(""),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cs.Close()
//
//	summary, err := cs.Sync(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary)
package catalogsync

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/maryline/catalogsync/internal/gateway"
	"github.com/maryline/catalogsync/internal/history"
	"github.com/maryline/catalogsync/internal/keycrm"
	"github.com/maryline/catalogsync/internal/strapi"
	"github.com/maryline/catalogsync/internal/transport"
	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/logging"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client runs catalog reconciliations.
type Client interface {
	// Sync runs one reconciliation and returns its summary. The summary is
	// non-nil even when the run aborts on a listing failure.
	Sync(ctx context.Context) (*reconcile.Summary, error)

	// OnRunStarted registers a callback for run start
	OnRunStarted(RunStartedHook)

	// OnRunFinished registers a callback for run completion
	OnRunFinished(RunFinishedHook)

	// Close releases the history database, if any
	Close() error
}

type client struct {
	mu      sync.Mutex // one run at a time
	options *options
	engine  *reconcile.Engine
	history *history.Store
	hooks   *hooks
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	policy := gateway.DefaultPolicy()
	policy.MaxAttempts = o.maxAttempts
	policy.Delay = o.retryDelay
	gwOpts := []gateway.Option{
		gateway.WithPolicy(policy),
		gateway.WithSleeper(o.sleeper),
		gateway.WithRateLimit(o.rps, 1),
	}

	source := o.source
	if source == nil {
		if o.keycrmToken == "" {
			return nil, errors.NewConfigError("keycrm", "token is required", nil)
		}
		tc := transport.NewWithHTTPClient(o.httpClient, transport.AuthFor(o.keycrmToken))
		source = keycrm.NewClient(o.keycrmURL, gateway.New(keycrm.Service, tc, gwOpts...))
	}

	store := o.store
	if store == nil {
		tc := transport.NewWithHTTPClient(o.httpClient, transport.AuthFor(o.strapiToken))
		store = strapi.NewClient(o.strapiURL, gateway.New(strapi.Service, tc, gwOpts...))
	}

	engineOpts := append([]reconcile.Option{reconcile.WithSleeper(o.sleeper)}, o.engine...)
	engine, err := reconcile.New(source, store, engineOpts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		engine:  engine,
		hooks:   newHooks(),
	}

	if o.historyEnabled {
		if c.history, err = history.Open(o.historyDir); err != nil {
			return nil, errors.WrapResource("open", "history", o.historyDir, err)
		}
	}

	logging.Debug().
		Str("keycrm", o.keycrmURL).
		Str("strapi", o.strapiURL).
		Int("max_attempts", o.maxAttempts).
		Bool("history", c.history != nil).
		Msg("Client configured")
	return c, nil
}

// Sync implements Client.
func (c *client) Sync(ctx context.Context) (*reconcile.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	scope := c.engine.Options().Scope
	runID := uuid.NewString()
	if c.history != nil {
		run, err := c.history.Start(ctx, scope)
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}
	ctx = logging.WithRunID(ctx, runID)
	c.hooks.started(runID, scope)

	summary, err := c.engine.Run(ctx)

	if c.history != nil {
		// Record the outcome even when the run was canceled.
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
		if herr := c.history.Finish(finishCtx, runID, summary, err); herr != nil {
			logging.FromContext(ctx).Warn().Err(herr).Msg("Failed to record run outcome")
		}
		cancel()
	}
	c.hooks.finished(runID, summary, err)
	return summary, err
}

// OnRunStarted implements Client.
func (c *client) OnRunStarted(fn RunStartedHook) {
	c.hooks.OnRunStarted(fn)
}

// OnRunFinished implements Client.
func (c *client) OnRunFinished(fn RunFinishedHook) {
	c.hooks.OnRunFinished(fn)
}

// Close implements Client.
func (c *client) Close() error {
	if c.history == nil {
		return nil
	}
	return c.history.Close()
}
