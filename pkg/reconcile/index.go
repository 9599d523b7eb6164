package reconcile

import (
	"context"
	"sync"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
)

type indexKey struct {
	kind  catalog.Kind
	field string
	value string
}

// Index finds existing destination records by external id or name. It
// remembers records it has seen during a run; absence is never cached,
// so a later lookup always reaches the store again.
type Index struct {
	store Store

	mu    sync.RWMutex
	known map[indexKey]catalog.Record
}

// NewIndex creates an index over store.
func NewIndex(store Store) *Index {
	return &Index{store: store, known: make(map[indexKey]catalog.Record)}
}

// Find returns the record of kind created from externalID, or nil.
func (ix *Index) Find(ctx context.Context, kind catalog.Kind, externalID string) (*catalog.Record, error) {
	return ix.lookup(ctx, kind, constants.ExternalIDField, externalID)
}

// FindByName returns the dictionary record of kind with the given name, or nil.
func (ix *Index) FindByName(ctx context.Context, kind catalog.Kind, name string) (*catalog.Record, error) {
	return ix.lookup(ctx, kind, constants.NameField, name)
}

func (ix *Index) lookup(ctx context.Context, kind catalog.Kind, field, value string) (*catalog.Record, error) {
	key := indexKey{kind: kind, field: field, value: value}

	ix.mu.RLock()
	rec, ok := ix.known[key]
	ix.mu.RUnlock()
	if ok {
		return &rec, nil
	}

	found, err := ix.store.Find(ctx, kind, field, value)
	if err != nil || found == nil {
		return nil, err
	}
	found.Existed = true
	ix.remember(key, *found)
	return found, nil
}

// remember records rec under key for the rest of the run.
func (ix *Index) remember(key indexKey, rec catalog.Record) {
	ix.mu.Lock()
	ix.known[key] = rec
	ix.mu.Unlock()
}

// Reset forgets everything remembered so far.
func (ix *Index) Reset() {
	ix.mu.Lock()
	ix.known = make(map[indexKey]catalog.Record)
	ix.mu.Unlock()
}

// Len returns the number of remembered records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.known)
}
