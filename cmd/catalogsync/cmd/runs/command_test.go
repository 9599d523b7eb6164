package runs

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryline/catalogsync/cmd/application"
	"github.com/maryline/catalogsync/internal/history"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

type fakeHistory struct {
	runs   []history.Run
	limit  int
	closed bool
}

func (f *fakeHistory) List(_ context.Context, limit int) ([]history.Run, error) {
	f.limit = limit
	return f.runs, nil
}

func (f *fakeHistory) Close() error {
	f.closed = true
	return nil
}

func execute(t *testing.T, h *fakeHistory, format string, args ...string) string {
	t.Helper()
	mock := &application.Mock{
		HistoryFunc:      func() (application.History, error) { return h, nil },
		OutputFormatFunc: func() string { return format },
	}
	cmd := NewCommand(mock)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestRunsListsHistory(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	h := &fakeHistory{runs: []history.Run{
		{ID: "b", Scope: reconcile.ScopeAll, Status: history.StatusFinished, StartedAt: started},
		{ID: "a", Scope: reconcile.ScopeCategories, Status: history.StatusFailed, StartedAt: started.Add(-time.Hour), Error: "boom"},
	}}

	out := execute(t, h, "json", "--limit", "2")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "b", decoded[0]["id"])
	assert.Equal(t, 2, h.limit)
	assert.True(t, h.closed)
}

func TestRunsDefaultLimit(t *testing.T) {
	h := &fakeHistory{}
	out := execute(t, h, "table")

	assert.Equal(t, defaultLimit, h.limit)
	assert.Contains(t, out, "No runs recorded")
}
