package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryline/catalogsync/pkg/catalog"
)

func TestIndexCachesOnlyPresence(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	ix := NewIndex(store)

	rec, err := ix.Find(ctx, catalog.KindProduct, "7")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = store.Create(ctx, catalog.KindProduct, map[string]any{"keycrm_id": int64(7)})
	require.NoError(t, err)

	rec, err = ix.Find(ctx, catalog.KindProduct, "7")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Existed)
	assert.Equal(t, 2, store.finds)

	_, err = ix.Find(ctx, catalog.KindProduct, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, store.finds, "second hit served from memory")
	assert.Equal(t, 1, ix.Len())

	ix.Reset()
	assert.Zero(t, ix.Len())
}

func TestIndexFindByName(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_, err := store.Create(ctx, catalog.KindSize, map[string]any{"name": "XL"})
	require.NoError(t, err)

	ix := NewIndex(store)
	rec, err := ix.FindByName(ctx, catalog.KindSize, "XL")
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = ix.FindByName(ctx, catalog.KindColor, "XL")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()
	unlock := km.Lock("category/1")

	acquired := make(chan struct{})
	go func() {
		u := km.Lock("category/1")
		close(acquired)
		u()
	}()

	other := km.Lock("category/2")
	other()

	select {
	case <-acquired:
		t.Fatal("same key acquired twice")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return km.held() == 0 }, time.Second, time.Millisecond)
}

func TestGetOrCreateUnderContention(t *testing.T) {
	ctx, _ := quietContext(t)
	store := newMemStore()
	e, _ := newTestEngine(t, &memSource{}, store)
	e.summary = NewSummary(ScopeAll)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.resolve(ctx, e.sizes(), "M")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.count(catalog.KindSize))
	assert.Equal(t, 1, e.summary.Get(catalog.KindSize).Created)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Defaults().Validate())

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "scope", opt: WithScope("everything")},
		{name: "empty stock", opt: WithEmptyStock("maybe")},
		{name: "offer limit", opt: WithOfferLimit(0)},
		{name: "relation offset", opt: WithRelationOffset(-1)},
		{name: "labels", opt: WithLabels("", "колір")},
		{name: "pause", opt: WithBatch(10, -time.Second)},
		{name: "sleeper", opt: WithSleeper(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Defaults().Apply(tt.opt).Validate())
		})
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, s)

	s, err = ParseScope("products")
	require.NoError(t, err)
	assert.False(t, s.Categories())
	assert.True(t, s.Products())

	_, err = ParseScope("stock")
	assert.Error(t, err)
}

func TestSummaryRows(t *testing.T) {
	s := NewSummary(ScopeAll)
	s.created(catalog.KindCategory)
	s.skipped(catalog.KindProduct)
	s.failed(catalog.KindStock)

	rows := s.Rows()
	require.Len(t, rows, len(catalog.Kinds))
	assert.Equal(t, catalog.KindCategory, rows[0].Kind)
	assert.Equal(t, Counts{Created: 1, Skipped: 1, Failed: 1}, s.Totals())
	assert.Equal(t, "1 created, 1 skipped, 1 failed", s.String())
}

func TestBatchOptions(t *testing.T) {
	o := Defaults().Apply(WithBatchSize(3), WithBatchPause(0))
	assert.Equal(t, 3, o.BatchSize)
	assert.Zero(t, o.BatchPause)
	assert.NoError(t, o.Validate())
}
