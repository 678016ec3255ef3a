package failure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/lorepath"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	return New(layout)
}

func TestAppendAndRecursCount(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Append("NonZeroExit", "exit status 1", "go test", "run", "")
		require.NoError(t, err)
	}
	count, err := s.RecursCount("NonZeroExit")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.GreaterOrEqual(t, count, RuleOfThree)
}

func TestListFiltersByErrorType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("NonZeroExit", "m1", "go test", "run", "")
	require.NoError(t, err)
	_, err = s.Append("Timeout", "m2", "curl", "call", "")
	require.NoError(t, err)

	list, err := s.List(Filters{ErrorType: "Timeout"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m2", list[0].ErrorMessage)
}
