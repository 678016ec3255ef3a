package searchindex

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/loretypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fakeProvider struct {
	vectors map[string][]float32
}

func (f fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f fakeProvider) Dimensions() int { return 3 }

func sampleDecisions() []*loretypes.Decision {
	return []*loretypes.Decision{
		{ID: "dec-1", Decision: "Use JSONL for the journal store", Rationale: "append-only and diff-friendly",
			Timestamp: time.Now().Add(-24 * time.Hour), Tags: []string{"proj:lore"}, LessonLearned: "atomic replace avoids partial writes"},
		{ID: "dec-2", Decision: "Use SQLite FTS5 for search", Rationale: "built-in ranking, no external service",
			Timestamp: time.Now(), Tags: []string{"proj:lore"}},
	}
}

func TestBuildAndLexicalRanksByBM25(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Build(context.Background(), BuildInput{Decisions: sampleDecisions()}))

	results, err := s.Lexical(context.Background(), "SQLite", QueryOptions{Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "dec-2", results[0].ID)
}

func TestLexicalAppendsAccessLog(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Build(context.Background(), BuildInput{Decisions: sampleDecisions()}))

	_, err := s.Lexical(context.Background(), "journal", QueryOptions{Limit: 10})
	require.NoError(t, err)

	count, _, err := s.accessStats(context.Background(), "decision", "dec-1")
	require.NoError(t, err)
	assert.Equal(t, float64(1), count)

	var queryText string
	row := s.db.QueryRowContext(context.Background(),
		`SELECT query_text FROM access_log WHERE record_type='decision' AND record_id='dec-1'`)
	require.NoError(t, row.Scan(&queryText))
	assert.Equal(t, "journal", queryText)
}

func TestMarkDirtySetsAndClearDirtyResets(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.IsDirty())

	s.MarkDirty()
	assert.True(t, s.IsDirty())

	s.ClearDirty()
	assert.False(t, s.IsDirty())
}

func TestSemanticRanksByCosineSimilarity(t *testing.T) {
	s := newTestStore(t)
	provider := fakeProvider{vectors: map[string][]float32{
		"Use JSONL for the journal store append-only and diff-friendly": {1, 0, 0},
		"Use SQLite FTS5 for search built-in ranking, no external service": {0, 1, 0},
		"query": {1, 0, 0},
	}}
	require.NoError(t, s.Build(context.Background(), BuildInput{Decisions: sampleDecisions(), Provider: provider}))

	results, err := s.Semantic(context.Background(), "query", provider, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "dec-1", results[0].ID)
}

func TestHybridFallsBackToLexicalWithoutProvider(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Build(context.Background(), BuildInput{Decisions: sampleDecisions()}))

	results, err := s.Hybrid(context.Background(), "SQLite", nil, QueryOptions{Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestGraphExpandedFindsNeighborsByRelation(t *testing.T) {
	s := newTestStore(t)
	graph := &loretypes.Graph{
		Nodes: map[string]*loretypes.GraphNode{
			"concept-aaa": {ID: "concept-aaa", Type: loretypes.NodeConcept, Name: "retrieval engine"},
			"concept-bbb": {ID: "concept-bbb", Type: loretypes.NodeConcept, Name: "ranking formula"},
		},
		Edges: []*loretypes.GraphEdge{
			{From: "concept-aaa", To: "concept-bbb", Relation: loretypes.RelImplements, Weight: 1, Status: loretypes.EdgeActive},
		},
	}
	require.NoError(t, s.Build(context.Background(), BuildInput{Graph: graph}))

	results, err := s.GraphExpanded(context.Background(), "retrieval", 2, nil, nil)
	require.NoError(t, err)
	var ids []string
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, "concept-aaa")
	assert.Contains(t, ids, "concept-bbb")
}

func TestCompactLineTruncatesTitle(t *testing.T) {
	r := Result{Type: "decision", ID: "dec-1", Content: "this is a very long decision title that exceeds forty characters easily", Project: "lore", Score: 1.2345}
	line := CompactLine(r)
	assert.Contains(t, line, "[decision] dec-1")
	assert.Contains(t, line, "...")
}
