package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loretypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return New(layout)
}

func TestCreateDefaultsToSpecifyPhase(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{Name: "Ship retrieval engine"})
	require.NoError(t, err)

	g, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, loretypes.GoalDraft, g.Status)
	assert.Equal(t, loretypes.PhaseSpecify, g.Lifecycle.Phase)
	assert.Equal(t, loretypes.PriorityMedium, g.Priority)
}

func TestSetStatusRejectsInvalidTransition(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{Name: "goal"})
	require.NoError(t, err)

	err = s.SetStatus(id, loretypes.GoalCompleted)
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))

	require.NoError(t, s.SetStatus(id, loretypes.GoalActive))
	require.NoError(t, s.SetStatus(id, loretypes.GoalCompleted))
}

func TestUpdateCriterionMovesIndependentlyOfGoalStatus(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{
		Name: "goal",
		SuccessCriteria: []loretypes.SuccessCriterion{
			{ID: "c1", Description: "thing works"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateCriterion(id, "c1", loretypes.CriterionCompleted))

	g, err := s.Get(id)
	require.NoError(t, err)
	require.Len(t, g.SuccessCriteria, 1)
	assert.Equal(t, loretypes.CriterionCompleted, g.SuccessCriteria[0].Status)
	assert.Equal(t, loretypes.GoalDraft, g.Status)
}

func TestProgressAdvancesThroughPhases(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{Name: "goal"})
	require.NoError(t, err)

	for _, want := range []loretypes.LifecyclePhase{
		loretypes.PhasePlan, loretypes.PhaseTasks, loretypes.PhaseImplement, loretypes.PhaseComplete,
	} {
		require.NoError(t, s.Progress(id))
		g, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, want, g.Lifecycle.Phase)
	}

	err = s.Progress(id)
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))
}

func TestAssignAdvancesPhaseFromSpecify(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{Name: "goal"})
	require.NoError(t, err)

	require.NoError(t, s.Assign(id, "session-1"))

	g, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "session-1", g.Lifecycle.AssignedSession)
	assert.Equal(t, loretypes.PhaseImplement, g.Lifecycle.Phase)
}

type fakeRecorder struct {
	recorded []string
}

func (f *fakeRecorder) Record(decision, rationale string, tags []string) (string, error) {
	f.recorded = append(f.recorded, decision)
	return "dec-fake", nil
}

func TestCompleteStampsOutcomeAndWritesDecision(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Create(CreateInput{Name: "goal"})
	require.NoError(t, err)

	rec := &fakeRecorder{}
	require.NoError(t, s.Complete(id, loretypes.GoalOutcomeCompleted, "shipped", "session-1", rec))

	g, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, g.Outcome)
	assert.Equal(t, loretypes.GoalOutcomeCompleted, g.Outcome.Status)
	assert.Equal(t, loretypes.GoalCompleted, g.Status)
	assert.Equal(t, "dec-fake", g.Outcome.JournalEntry)
	assert.Len(t, rec.recorded, 1)
}

func TestListFiltersByStatus(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.Create(CreateInput{Name: "a"})
	require.NoError(t, err)
	_, err = s.Create(CreateInput{Name: "b"})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(id1, loretypes.GoalActive))

	active, err := s.List(loretypes.GoalActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, id1, active[0].ID)

	all, err := s.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
