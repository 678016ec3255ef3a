package inbox

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

func TestObserveRequiresContent(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Observe("", "cli", nil)
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindUsage))
}

func TestObserveAndListDefaultsToRaw(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Observe("saw a flaky test", "cli", []string{"ci"})
	require.NoError(t, err)

	list, err := s.List("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, loretypes.ObsRaw, list[0].Status)
}

func TestPromoteAndDiscardUpdateStatusWithoutMutatingLog(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.Observe("first", "cli", nil)
	require.NoError(t, err)
	id2, err := s.Observe("second", "cli", nil)
	require.NoError(t, err)

	require.NoError(t, s.Promote(id1))
	require.NoError(t, s.Discard(id2))

	promoted, err := s.List(loretypes.ObsPromoted)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, id1, promoted[0].ID)

	discarded, err := s.List(loretypes.ObsDiscarded)
	require.NoError(t, err)
	require.Len(t, discarded, 1)
	assert.Equal(t, id2, discarded[0].ID)

	all, err := s.List("")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestPromoteUnknownIDFails(t *testing.T) {
	s := newTestStore(t)
	err := s.Promote("obs-missing")
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindNotFound))
}

func TestListOnMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	list, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, list)
}
