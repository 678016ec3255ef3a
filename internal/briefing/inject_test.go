package briefing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/retrieval"
	"github.com/lore-dev/lore/internal/searchindex"
)

func newTestEngine(t *testing.T) *retrieval.Engine {
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
	return retrieval.New(idx)
}

func TestDefaultProjectLookupDerivesFromBaseDir(t *testing.T) {
	assert.Equal(t, "lore", DefaultProjectLookup("/home/dev/projects/lore"))
	assert.Equal(t, "", DefaultProjectLookup(""))
}

func TestKeywordsFiltersStopwordsAndShortTokens(t *testing.T) {
	kw := Keywords("How do I use SQLite FTS5 for the search index?")
	assert.Contains(t, kw, "sqlite")
	assert.Contains(t, kw, "fts5")
	assert.Contains(t, kw, "search")
	assert.NotContains(t, kw, "the")
	assert.NotContains(t, kw, "how")
}

func TestAutoContextReturnsCompactBlockOnMatch(t *testing.T) {
	engine := newTestEngine(t)
	out := AutoContext(context.Background(), "/home/dev/lore", "help me with SQLite search ranking", nil, engine, 200)
	assert.Contains(t, out, InjectionHeader)
	assert.Contains(t, out, InjectionTrailer)
	assert.Contains(t, out, "dec-1")
}

func TestAutoContextEmptyWithoutEngine(t *testing.T) {
	out := AutoContext(context.Background(), "/home/dev/lore", "anything", nil, nil, 200)
	assert.Equal(t, "", out)
}

func TestAutoContextEmptyWithoutKeywords(t *testing.T) {
	engine := newTestEngine(t)
	out := AutoContext(context.Background(), "/home/dev/lore", "the a an", nil, engine, 200)
	assert.Equal(t, "", out)
}
