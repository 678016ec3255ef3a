package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/intent"
	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loreconfig"
	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/retrieval"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(filepath.Join(t.TempDir(), "lore-data"), loreconfig.Default(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestRecordMirrorsDecisionIntoGraphAndMarksSearchDirty(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.Journal.Record(journal.RecordInput{
		Decision: "Use SQLite FTS5 for search", Rationale: "bm25 ranking built in",
		Tags: []string{"proj:lore"},
	})
	require.NoError(t, err)

	nodes, err := e.Graph.FindByName("Use SQLite FTS5 for search")
	require.NoError(t, err)
	assert.NotEmpty(t, nodes)
	assert.True(t, e.Search.IsDirty())
}

func TestRebuildIndexesDecisionsAndIsQueryable(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.Journal.Record(journal.RecordInput{
		Decision: "Use SQLite FTS5 for search", Rationale: "bm25 ranking built in",
		Tags: []string{"proj:lore"},
	})
	require.NoError(t, err)

	require.NoError(t, e.Rebuild(context.Background()))

	results, err := e.Retrieval.Query(context.Background(), "SQLite", retrieval.QueryOptions{Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestSyncGraphIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.Journal.Record(journal.RecordInput{Decision: "Adopt structured logging", Rationale: "easier to grep"})
	require.NoError(t, err)

	added1, err := e.SyncGraph()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, added1, 0)

	added2, err := e.SyncGraph()
	require.NoError(t, err)
	assert.Equal(t, 0, added2)
}

func TestDecisionRecorderWritesThroughJournal(t *testing.T) {
	e := newTestEngine(t)
	recorder := e.DecisionRecorder()
	id, err := recorder.Record("Adopt goal lifecycle phases", "keeps specify/plan/tasks/implement explicit", []string{"intent"})
	require.NoError(t, err)

	d, err := e.Journal.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Adopt goal lifecycle phases", d.Decision)
}

func TestGoalCompleteRecordsDecisionViaEngine(t *testing.T) {
	e := newTestEngine(t)
	goalID, err := e.Intent.Create(intent.CreateInput{Name: "Ship search index"})
	require.NoError(t, err)

	require.NoError(t, e.Intent.Complete(goalID, loretypes.GoalOutcomeCompleted, "done", "", e.DecisionRecorder()))
}

func TestAssignGoalBindsBothSides(t *testing.T) {
	e := newTestEngine(t)
	goalID, err := e.Intent.Create(intent.CreateInput{Name: "Ship search index"})
	require.NoError(t, err)
	sessionID, err := e.Transfer.Init("assign test")
	require.NoError(t, err)

	require.NoError(t, e.AssignGoal(goalID, sessionID))

	g, err := e.Intent.Get(goalID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, g.Lifecycle.AssignedSession)

	sess, err := e.Transfer.Resume(sessionID)
	require.NoError(t, err)
	assert.Equal(t, goalID, sess.Context.Spec)
}

func TestCompleteGoalClearsSessionSpecBinding(t *testing.T) {
	e := newTestEngine(t)
	goalID, err := e.Intent.Create(intent.CreateInput{Name: "Ship search index"})
	require.NoError(t, err)
	sessionID, err := e.Transfer.Init("complete test")
	require.NoError(t, err)
	require.NoError(t, e.AssignGoal(goalID, sessionID))

	require.NoError(t, e.CompleteGoal(goalID, loretypes.GoalOutcomeCompleted, "shipped", sessionID))

	sess, err := e.Transfer.Resume(sessionID)
	require.NoError(t, err)
	assert.Empty(t, sess.Context.Spec)
}
