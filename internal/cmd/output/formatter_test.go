package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maryline/catalogsync/internal/history"
	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/reconcile"
)

func testSummary() *reconcile.Summary {
	s := reconcile.NewSummary(reconcile.ScopeAll)
	s.StartedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.FinishedAt = s.StartedAt.Add(2 * time.Second)
	s.Counts[catalog.KindCategory] = reconcile.Counts{Created: 2, Skipped: 1}
	s.Counts[catalog.KindVariant] = reconcile.Counts{Failed: 1}
	return s
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData(testSummary())

	assert.Equal(t, []string{"Kind", "Created", "Skipped", "Failed"}, data.Headers)
	require.Len(t, data.Rows, len(catalog.Kinds)+1)
	assert.Equal(t, []string{"category", "2", "1", "0"}, data.Rows[0])
	assert.Equal(t, []string{"total", "2", "1", "1"}, data.Rows[len(data.Rows)-1])
}

func TestWriteSummary(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, FormatTable, testSummary()))
		out := buf.String()
		assert.Contains(t, strings.ToLower(out), "created")
		assert.Contains(t, out, "category")
		assert.Contains(t, out, "2 created, 1 skipped, 1 failed in 2s")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, FormatJSON, testSummary()))
		var decoded struct {
			Scope  string                    `json:"scope"`
			Counts map[string]map[string]int `json:"counts"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "all", decoded.Scope)
		assert.Equal(t, 2, decoded.Counts["category"]["created"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, FormatYAML, testSummary()))
		assert.Contains(t, buf.String(), "scope: all")
	})

	t.Run("nil summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, FormatTable, nil))
		assert.Empty(t, buf.String())
	})
}

func TestWriteRuns(t *testing.T) {
	finished := time.Date(2026, 3, 1, 9, 1, 30, 0, time.UTC)
	runs := []history.Run{
		{
			ID: "b", Scope: reconcile.ScopeAll, Status: history.StatusFinished,
			StartedAt: finished.Add(-90 * time.Second), FinishedAt: &finished, Summary: testSummary(),
		},
		{
			ID: "a", Scope: reconcile.ScopeProducts, Status: history.StatusFailed,
			StartedAt: finished.Add(-time.Hour), FinishedAt: &finished, Error: "sync aborted during products",
		},
	}

	data := RunsToTableData(runs)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "1m30s", data.Rows[0][4])
	assert.Equal(t, "2 created, 1 skipped, 1 failed", data.Rows[0][5])
	assert.Equal(t, "sync aborted during products", data.Rows[1][5])

	var buf bytes.Buffer
	require.NoError(t, WriteRuns(&buf, FormatTable, nil))
	assert.Equal(t, "No runs recorded\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRuns(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		DisplayName string `json:"display_name"`
		Count       int
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []row{{DisplayName: "Main", Count: 3}}))
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "display name")
	assert.Contains(t, out, "main")
}
