package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return New(layout, opts...)
}

func TestAddNodeIDIsDeterministicFunctionOfTypeAndName(t *testing.T) {
	s := newTestStore(t)
	id, err := s.AddNode(loretypes.NodeProject, "lore", nil)
	require.NoError(t, err)
	assert.Equal(t, loreid.GraphNodeID("project", "lore"), id)
}

func TestAddNodeMergesDataOnReAdd(t *testing.T) {
	s := newTestStore(t)
	id, err := s.AddNode(loretypes.NodeProject, "lore", map[string]any{"a": 1})
	require.NoError(t, err)

	id2, err := s.AddNode(loretypes.NodeProject, "lore", map[string]any{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	n, err := s.GetNode(id)
	require.NoError(t, err)
	assert.Equal(t, float64(1), toFloat(n.Data["a"]))
	assert.Equal(t, float64(2), toFloat(n.Data["b"]))

	all, err := s.ListByType(loretypes.NodeProject)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	default:
		return -1
	}
}

func TestAddEdgeRejectsMissingEndpoints(t *testing.T) {
	s := newTestStore(t)
	a, err := s.AddNode(loretypes.NodeConcept, "A", nil)
	require.NoError(t, err)

	err = s.AddEdge(a, "missing-node", loretypes.RelRelatesTo, 1.0, false)
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindUsage))
}

type fakeJournal struct {
	superseded map[string]string
}

func (f *fakeJournal) MarkSuperseded(decisionID, by string) error {
	if f.superseded == nil {
		f.superseded = map[string]string{}
	}
	f.superseded[decisionID] = by
	return nil
}

func TestSupersedesEdgeMutatesTargetDecision(t *testing.T) {
	fj := &fakeJournal{}
	s := newTestStore(t, WithDecisionUpdater(fj))

	a, err := s.AddNode(loretypes.NodeDecision, "Decision A", nil)
	require.NoError(t, err)
	b, err := s.AddNode(loretypes.NodeDecision, "Decision B", nil)
	require.NoError(t, err)

	require.NoError(t, s.AddEdge(a, b, loretypes.RelSupersedes, 1.0, false))
	assert.Equal(t, a, fj.superseded[b])
}

func TestContradictsEdgeEmitsWarningWithoutMutating(t *testing.T) {
	var warnings []string
	s := newTestStore(t, WithContradictionSink(func(msg string) { warnings = append(warnings, msg) }))

	a, err := s.AddNode(loretypes.NodeDecision, "Decision A", nil)
	require.NoError(t, err)
	b, err := s.AddNode(loretypes.NodeDecision, "Decision B", nil)
	require.NoError(t, err)

	require.NoError(t, s.AddEdge(a, b, loretypes.RelContradicts, 1.0, true))
	require.Len(t, warnings, 1)

	edges, err := s.Outgoing(a)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	edges, err = s.Outgoing(b)
	require.NoError(t, err)
	require.Len(t, edges, 1) // bidirectional reverse edge present too
}

func TestShortestPath(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	c, _ := s.AddNode(loretypes.NodeConcept, "C", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))
	require.NoError(t, s.AddEdge(b, c, loretypes.RelRelatesTo, 1.0, false))

	path, err := s.ShortestPath(a, c)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, path)
}

func TestOrphansAndHubs(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	_, _ = s.AddNode(loretypes.NodeConcept, "Lonely", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))

	orphans, err := s.Orphans()
	require.NoError(t, err)
	require.Len(t, orphans, 1)

	hubs, err := s.Hubs(10)
	require.NoError(t, err)
	require.Len(t, hubs, 2)
	assert.Equal(t, 1, hubs[0].Degree)
}

func TestSyncIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	decisions := []SyncDecision{{ID: "dec-1", Text: "Use JSONL"}}

	added, err := s.Sync(decisions)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = s.Sync(decisions)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestDeleteNodeRemovesIncidentEdges(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	c, _ := s.AddNode(loretypes.NodeConcept, "C", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))
	require.NoError(t, s.AddEdge(c, a, loretypes.RelRelatesTo, 1.0, false))

	require.NoError(t, s.DeleteNode(a))

	_, err := s.GetNode(a)
	assert.Error(t, err)

	edgesB, err := s.Incoming(b)
	require.NoError(t, err)
	assert.Empty(t, edgesB)
	edgesC, err := s.Outgoing(c)
	require.NoError(t, err)
	assert.Empty(t, edgesC)
}

func TestDeleteNodeMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.DeleteNode("missing")
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindNotFound))
}

func TestDeleteEdgeHardRemovesMatchingEdges(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))
	require.NoError(t, s.AddEdge(a, b, loretypes.RelDependsOn, 1.0, false))

	require.NoError(t, s.DeleteEdge(a, b, loretypes.RelRelatesTo))

	edges, err := s.Outgoing(a)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, loretypes.RelDependsOn, edges[0].Relation)
}

func TestDeleteEdgeWithoutRelationRemovesAll(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))
	require.NoError(t, s.AddEdge(a, b, loretypes.RelDependsOn, 1.0, false))

	require.NoError(t, s.DeleteEdge(a, b, ""))

	edges, err := s.Outgoing(a)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestDeprecateEdgeSoftDeletesAndIsIgnoredByQueries(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddNode(loretypes.NodeConcept, "A", nil)
	b, _ := s.AddNode(loretypes.NodeConcept, "B", nil)
	require.NoError(t, s.AddEdge(a, b, loretypes.RelRelatesTo, 1.0, false))

	require.NoError(t, s.DeprecateEdge(a, b, loretypes.RelRelatesTo))

	neighbors, err := s.Neighbors(a)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}
