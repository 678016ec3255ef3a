package transfer

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loretypes"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return New(layout, opts...)
}

type fakeGit struct {
	state loretypes.GitState
}

func (f fakeGit) State() (loretypes.GitState, error) { return f.state, nil }

func TestInitSetsCurrentSession(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("start work on retrieval engine")
	require.NoError(t, err)

	current, err := s.CurrentSessionID()
	require.NoError(t, err)
	assert.Equal(t, id, current)
}

func TestSnapshotCapturesGitAndContext(t *testing.T) {
	s := newTestStore(t, WithGitInspector(fakeGit{state: loretypes.GitState{Branch: "main", StashCount: 1}}))
	id, err := s.Init("snapshot test")
	require.NoError(t, err)

	err = s.Snapshot(id, SnapshotInput{
		RecentCommands: []string{"go test ./..."},
		ActiveFiles:    []string{"store.go"},
		RelatedJournal: []string{"dec-1"},
	})
	require.NoError(t, err)

	sess, err := s.Resume(id)
	require.NoError(t, err)
	assert.Equal(t, "main", sess.GitState.Branch)
	assert.Equal(t, []string{"store.go"}, sess.Context.ActiveFiles)
	assert.Contains(t, sess.Related.JournalEntries, "dec-1")
}

func TestHandoffEndsSessionAndClearsCurrent(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("handoff test")
	require.NoError(t, err)

	err = s.Handoff(id, HandoffInput{Message: "done for today", NextSteps: []string{"ship it"}})
	require.NoError(t, err)

	current, err := s.CurrentSessionID()
	require.NoError(t, err)
	assert.Empty(t, current)

	sess, err := s.Resume(id)
	require.NoError(t, err)
	assert.False(t, sess.EndedAt.IsZero())
	assert.Equal(t, "done for today", sess.Handoff.Message)
}

func TestHandoffTwiceConflicts(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("double handoff")
	require.NoError(t, err)
	require.NoError(t, s.Handoff(id, HandoffInput{Message: "first"}))

	err = s.Handoff(id, HandoffInput{Message: "second"})
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))
}

func TestResumeDefaultsToLatest(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Init("older")
	require.NoError(t, err)
	require.NoError(t, s.Handoff(mustCurrent(t, s), HandoffInput{Message: "old done"}))

	id2, err := s.Init("newer")
	require.NoError(t, err)

	sess, err := s.Resume("")
	require.NoError(t, err)
	assert.Equal(t, id2, sess.ID)
}

func mustCurrent(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.CurrentSessionID()
	require.NoError(t, err)
	return id
}

func TestCompressRequiresEndedSession(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("not ended")
	require.NoError(t, err)

	_, err = s.Compress(id)
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))
}

func TestSetSpecBindsAndClears(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("spec binding test")
	require.NoError(t, err)

	require.NoError(t, s.SetSpec(id, "goal-1"))
	sess, err := s.Resume(id)
	require.NoError(t, err)
	assert.Equal(t, "goal-1", sess.Context.Spec)

	require.NoError(t, s.SetSpec(id, ""))
	sess, err = s.Resume(id)
	require.NoError(t, err)
	assert.Empty(t, sess.Context.Spec)
}

func TestCompressDropsVerboseFields(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Init("compress test")
	require.NoError(t, err)
	require.NoError(t, s.Snapshot(id, SnapshotInput{
		RecentCommands: []string{"go test", "go vet", "go build"},
		Environment:    map[string]string{"GOOS": "linux"},
		ActiveFiles:    []string{"store.go"},
	}))
	require.NoError(t, s.Handoff(id, HandoffInput{Message: "wrapping up"}))

	ratio, err := s.Compress(id)
	require.NoError(t, err)
	assert.Greater(t, ratio, 0.0)

	data, err := os.ReadFile(s.layout.CompressedSessionFile(id))
	require.NoError(t, err)
	var compressed loretypes.Session
	require.NoError(t, json.Unmarshal(data, &compressed))
	assert.True(t, compressed.Compressed)
	assert.Empty(t, compressed.Context.RecentCommands)
	assert.Empty(t, compressed.Context.Environment)
	assert.Equal(t, []string{"store.go"}, compressed.Context.ActiveFiles)
}
