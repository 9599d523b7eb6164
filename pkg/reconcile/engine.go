// Package reconcile mirrors a CRM catalog into a content store. Every
// creation is preceded by a lookup on the source id, so repeated runs over
// the same snapshot converge on one destination record per source entity.
//
// A run walks categories, then products. Each product cascades into its
// offers (variants) and their per-warehouse stock. Failures are isolated
// to the entity that caused them and counted in the Summary; only the
// top-level listings abort a run.
package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/logging"
)

// Engine runs reconciliations. A single Engine must not run concurrently
// with itself.
type Engine struct {
	source Source
	store  Store
	opts   *Options

	index      *Index
	locks      *keyedMutex
	categories map[int64]catalog.Category
	summary    *Summary
}

// New creates an engine reading from source and writing to store.
func New(source Source, store Store, opts ...Option) (*Engine, error) {
	if source == nil || store == nil {
		return nil, errors.NewValidationError("engine", nil, "source and store are required")
	}
	o := Defaults().Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		source: source,
		store:  store,
		opts:   o,
		index:  NewIndex(store),
		locks:  newKeyedMutex(),
	}, nil
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return *e.opts
}

// Run performs one reconciliation. The returned summary is never nil; on
// a fatal listing failure it holds whatever was counted before the abort.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	e.summary = NewSummary(e.opts.Scope)
	e.summary.StartedAt = time.Now().UTC()
	e.index.Reset()
	defer func() { e.summary.FinishedAt = time.Now().UTC() }()

	log := logging.FromContext(ctx)
	log.Info().Str("scope", string(e.opts.Scope)).Msg("Starting reconciliation")

	cats, err := e.source.ListCategories(ctx)
	if err != nil {
		return e.summary, errors.NewSyncError("categories", err)
	}
	e.categories = make(map[int64]catalog.Category, len(cats))
	for _, c := range cats {
		e.categories[c.ID] = c
	}
	log.Info().Int("count", len(cats)).Msg("Fetched categories")

	if e.opts.Scope.Categories() {
		if err := e.syncCategories(logging.WithStage(ctx, "categories"), cats); err != nil {
			return e.summary, err
		}
	}

	if e.opts.Scope.Products() {
		products, err := e.source.ListProducts(ctx)
		if err != nil {
			return e.summary, errors.NewSyncError("products", err)
		}
		log.Info().Int("count", len(products)).Msg("Fetched products")
		if err := e.syncProducts(logging.WithStage(ctx, "products"), products); err != nil {
			return e.summary, err
		}
	}

	log.Info().Str("summary", e.summary.String()).Msg("Reconciliation finished")
	return e.summary, nil
}

func (e *Engine) syncCategories(ctx context.Context, cats []catalog.Category) error {
	log := logging.FromContext(ctx)
	for _, c := range cats {
		if err := ctx.Err(); err != nil {
			return errors.NewSyncError("categories", err)
		}
		rec, err := e.resolveCategory(ctx, c.ID, make(map[int64]bool))
		switch {
		case err != nil:
			e.summary.failed(catalog.KindCategory)
			progress(log.Warn(), catalog.KindCategory, c.ID).Err(err).Msg("failed")
		case rec.Existed:
			e.summary.skipped(catalog.KindCategory)
			progress(log.Info(), catalog.KindCategory, c.ID).Int64("id", rec.ID).Msg("skipped")
		default:
			// created earlier in this run as an ancestor
			progress(log.Debug(), catalog.KindCategory, c.ID).Int64("id", rec.ID).Msg("resolved")
		}
	}
	return nil
}

func (e *Engine) syncProducts(ctx context.Context, products []catalog.Product) error {
	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return errors.NewSyncError("products", err)
		}
		e.syncProduct(ctx, p)

		done := i + 1
		if done%e.opts.BatchSize == 0 && done < len(products) && e.opts.BatchPause > 0 {
			logging.FromContext(ctx).Debug().
				Int("done", done).
				Dur("pause", e.opts.BatchPause).
				Msg("Pausing after batch")
			if err := e.opts.Sleeper.Sleep(ctx, e.opts.BatchPause); err != nil {
				return errors.NewSyncError("products", err)
			}
		}
	}
	return nil
}

// getOrCreate returns the record of kind whose field equals value, creating
// it from build when the store has none. build runs under the key's lock.
func (e *Engine) getOrCreate(ctx context.Context, kind catalog.Kind, field, value string, build func(context.Context) (map[string]any, error)) (catalog.Record, error) {
	unlock := e.locks.Lock(string(kind) + "/" + field + "/" + value)
	defer unlock()

	found, err := e.index.lookup(ctx, kind, field, value)
	if err != nil {
		return catalog.Record{}, err
	}
	if found != nil {
		return *found, nil
	}

	attrs, err := build(ctx)
	if err != nil {
		return catalog.Record{}, err
	}
	rec, err := e.store.Create(ctx, kind, attrs)
	if err != nil {
		return catalog.Record{}, err
	}
	rec.Existed = false
	e.index.remember(indexKey{kind: kind, field: field, value: value}, *rec)
	e.summary.created(kind)

	logging.FromContext(ctx).Info().
		Str("kind", string(kind)).
		Str(field, value).
		Int64("id", rec.ID).
		Msg("created")
	return *rec, nil
}

// relation converts a destination id into the value used to reference it.
func (e *Engine) relation(id int64) int64 {
	return id - e.opts.RelationOffset
}

// progress starts a per-entity progress event.
func progress(ev *zerolog.Event, kind catalog.Kind, externalID int64) *zerolog.Event {
	return ev.Str("kind", string(kind)).Int64("external_id", externalID)
}
