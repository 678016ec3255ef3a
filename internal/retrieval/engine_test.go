package retrieval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/searchindex"
)

func newTestEngine(t *testing.T) (*Engine, *searchindex.Store) {
	t.Helper()
	idx, err := searchindex.Open(filepath.Join(t.TempDir(), "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.Build(context.Background(), searchindex.BuildInput{
		Decisions: []*loretypes.Decision{
			{ID: "dec-1", Decision: "Use SQLite FTS5 for search", Rationale: "bm25 built in",
				Timestamp: time.Now(), Tags: []string{"proj:lore"}},
		},
	}))
	return New(idx), idx
}

func TestQueryDefaultsToLexical(t *testing.T) {
	e, _ := newTestEngine(t)
	results, err := e.Query(context.Background(), "SQLite", QueryOptions{Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "dec-1", results[0].ID)
}

func TestQuerySemanticFallsBackToLexicalWithoutProvider(t *testing.T) {
	e, _ := newTestEngine(t)
	results, err := e.Query(context.Background(), "SQLite", QueryOptions{Mode: ModeSemantic, Limit: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

// countingRebuilder mimics engine.Engine.Rebuild's contract of clearing
// the index's dirty flag once the rebuild completes.
type countingRebuilder struct {
	calls int
	index *searchindex.Store
}

func (r *countingRebuilder) Rebuild(ctx context.Context) error {
	r.calls++
	r.index.ClearDirty()
	return nil
}

func TestQueryRebuildsWhenIndexIsDirty(t *testing.T) {
	e, idx := newTestEngine(t)
	rebuilder := &countingRebuilder{index: idx}
	e.rebuild = rebuilder

	idx.MarkDirty()
	_, err := e.Query(context.Background(), "SQLite", QueryOptions{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilder.calls)

	_, err = e.Query(context.Background(), "SQLite", QueryOptions{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilder.calls, "second query should not re-trigger a rebuild once dirty is cleared")
}

func TestFormatCompactProducesOneLinePerResult(t *testing.T) {
	results := []searchindex.Result{
		{Type: "decision", ID: "dec-1", Content: "short title", Project: "lore", Score: 1.5},
	}
	lines := FormatCompact(results)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "dec-1")
}
