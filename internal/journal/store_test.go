package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loretypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return New(layout)
}

func TestRecordComputesFullSpecQuality(t *testing.T) {
	s := newTestStore(t)
	id, contradictions, err := s.Record(RecordInput{
		Decision:     "Use JSONL over SQLite",
		Rationale:    "append-only, simple, portable format",
		Alternatives: []string{"SQLite"},
		Tags:         []string{"lore"},
	})
	require.NoError(t, err)
	assert.Empty(t, contradictions)

	d, err := s.Get(id)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d.SpecQuality, 0.0001)
	assert.Contains(t, d.Entities, "JSONL")
	assert.Contains(t, d.Entities, "SQLite")
}

func TestRecordMinimalSpecQuality(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Record(RecordInput{Decision: "Do a thing"})
	require.NoError(t, err)

	d, err := s.Get(id)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, d.SpecQuality, 0.0001)
}

func TestRecordBlocksDuplicateWithoutForce(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Record(RecordInput{Decision: "Use JSONL over SQLite", Rationale: "append-only, simple"})
	require.NoError(t, err)

	_, _, err = s.Record(RecordInput{Decision: "Use JSONL over SQLite", Rationale: "append-only, simple"})
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))

	id2, _, err := s.Record(RecordInput{Decision: "Use JSONL over SQLite", Rationale: "append-only, simple", Force: true})
	require.NoError(t, err)
	assert.NotEmpty(t, id2)
}

func TestUpdateAppendsNewRevisionWithoutMutatingPriorLine(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Record(RecordInput{Decision: "Adopt feature flags", Rationale: "allows staged rollout safely"})
	require.NoError(t, err)

	require.NoError(t, s.Update(id, "outcome", loretypes.OutcomeSuccessful))

	d, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, loretypes.OutcomeSuccessful, d.Outcome)

	all, err := s.readAll()
	require.NoError(t, err)
	assert.Len(t, all, 2) // original + revision, both present on disk
}

func TestListDeduplicatesByLatestRevision(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Record(RecordInput{Decision: "Switch to Go modules", Rationale: "improves dependency management a lot"})
	require.NoError(t, err)
	require.NoError(t, s.Update(id, "outcome", loretypes.OutcomeRevised))

	list, err := s.List(Filters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, loretypes.OutcomeRevised, list[0].Outcome)
}

func TestCompactKeepsOnlyLatestRevisions(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Record(RecordInput{Decision: "Adopt structured logging", Rationale: "makes debugging much easier"})
	require.NoError(t, err)
	require.NoError(t, s.Update(id, "outcome", loretypes.OutcomeSuccessful))

	require.NoError(t, s.Compact())

	all, err := s.readAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, loretypes.OutcomeSuccessful, all[0].Outcome)

	d, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, loretypes.OutcomeSuccessful, d.Outcome)
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Record(RecordInput{Decision: "Retry logic for flaky network calls", Rationale: "exponential backoff avoids storms"})
	require.NoError(t, err)

	results, err := s.Search("backoff")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestMissingJournalFileIsTreatedAsEmpty(t *testing.T) {
	layout := lorepath.New(filepath.Join(t.TempDir(), "nested"))
	s := New(layout)
	list, err := s.List(Filters{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
