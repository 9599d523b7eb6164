package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

// setupTestStore opens a store in a temporary directory with a
// controllable clock.
func setupTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestStartAndFinish(t *testing.T) {
	ctx := context.Background()
	store, now := setupTestStore(t)

	run, err := store.Start(ctx, reconcile.ScopeAll)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)

	*now = now.Add(90 * time.Second)
	summary := reconcile.NewSummary(reconcile.ScopeAll)
	summary.Counts[catalog.KindCategory] = reconcile.Counts{Created: 2, Skipped: 1}
	require.NoError(t, store.Finish(ctx, run.ID, summary, nil))

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusFinished, got.Status)
	assert.Equal(t, reconcile.ScopeAll, got.Scope)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, 90*time.Second, got.Duration())
	require.NotNil(t, got.Summary)
	assert.Equal(t, reconcile.Counts{Created: 2, Skipped: 1}, got.Summary.Get(catalog.KindCategory))
}

func TestFinishFailed(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	run, err := store.Start(ctx, reconcile.ScopeProducts)
	require.NoError(t, err)
	require.NoError(t, store.Finish(ctx, run.ID, nil, errors.NewSyncError("products", errors.ErrTransport)))

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "sync aborted during products")
	assert.Nil(t, got.Summary)
}

func TestFinishUnknownRun(t *testing.T) {
	store, _ := setupTestStore(t)
	err := store.Finish(context.Background(), "missing", nil, nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetMissing(t *testing.T) {
	store, _ := setupTestStore(t)
	run, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, now := setupTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.Start(ctx, reconcile.ScopeAll)
		require.NoError(t, err)
		ids = append(ids, run.ID)
		*now = now.Add(time.Minute)
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)

	runs, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	run, err := store.Start(ctx, reconcile.ScopeCategories)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, reconcile.ScopeCategories, got.Scope)
}
