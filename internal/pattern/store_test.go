package pattern

import (
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

func TestCaptureAndValidateRaisesConfidence(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Capture(CaptureInput{
		Name:     "Safe bash arithmetic",
		Context:  "Shell scripts doing integer math in loops",
		Problem:  "string-based `let` expansion is fragile under `set -e`",
		Solution: "use $((...)) arithmetic expansion consistently",
		Category: loretypes.CategoryBash,
	})
	require.NoError(t, err)

	p, err := s.Show(id)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.Confidence, 0.0001)
	assert.Equal(t, 0, p.Validations)
	assert.True(t, IsStale(p))

	require.NoError(t, s.Validate(id))
	p, err = s.Show(id)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, p.Confidence, 0.0001)
	assert.Equal(t, 1, p.Validations)
}

func TestCaptureBlocksNearDuplicate(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Capture(CaptureInput{Name: "Safe bash arithmetic", Context: "arith context long enough", Solution: "solution text long enough"})
	require.NoError(t, err)

	_, matches, err := s.Capture(CaptureInput{Name: "Safe Bash arith", Context: "arith context long enough", Solution: "solution text long enough"})
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))
	assert.NotEmpty(t, matches)

	_, _, err = s.Capture(CaptureInput{Name: "Safe Bash arith", Context: "arith context long enough", Solution: "solution text long enough", Force: true})
	require.NoError(t, err)
}

func TestDeprecatePrefixesName(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Capture(CaptureInput{Name: "Old pattern", Context: "context long enough here", Solution: "solution long enough here"})
	require.NoError(t, err)

	require.NoError(t, s.Deprecate(id))
	p, err := s.Show(id)
	require.NoError(t, err)
	assert.True(t, p.Deprecated)
	assert.Equal(t, "[DEPRECATED] Old pattern", p.Name)
}

func TestCheckFindsUnsafeRmAndBakedCredential(t *testing.T) {
	code := "password = \"hunter2x\"\nrm -rf $TARGET_DIR\n"
	issues := Check(code)
	require.Len(t, issues, 2)
	assert.Equal(t, "baked-credential", issues[0].Rule)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "unsafe-rm", issues[1].Rule)
	assert.Equal(t, 2, issues[1].Line)
}

func TestCheckSetEWithoutTrap(t *testing.T) {
	assert.Len(t, Check("set -e\necho hi\n"), 1)
	assert.Empty(t, Check("set -e\ntrap cleanup EXIT\n"))
}
