package outcome

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lore-dev/lore/internal/failure"
	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/pattern"
)

type testStores struct {
	layout   *lorepath.Layout
	journal  *journal.Store
	patterns *pattern.Store
	failures *failure.Store
	outcome  *Store
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	layout := lorepath.New(t.TempDir())
	require.NoError(t, layout.EnsureDirs())
	j := journal.New(layout)
	p := pattern.New(layout)
	f := failure.New(layout)
	return &testStores{layout: layout, journal: j, patterns: p, failures: f, outcome: New(j, p, f)}
}

// appendBackdated writes a decision directly to the journal file with an
// explicit timestamp, bypassing Record (which always stamps "now").
func (ts *testStores) appendBackdated(t *testing.T, d *loretypes.Decision) {
	t.Helper()
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, lorepath.AppendLine(ts.layout.JournalFile(), data))
}

func TestListReturnsOnlyPendingDecisionsOlderThanThreshold(t *testing.T) {
	ts := newTestStores(t)
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-old", Timestamp: time.Now().Add(-10 * 24 * time.Hour),
		Decision: "old pending decision", Outcome: loretypes.OutcomePending, Status: loretypes.StatusActive,
	})
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-new", Timestamp: time.Now().Add(-1 * time.Hour),
		Decision: "fresh pending decision", Outcome: loretypes.OutcomePending, Status: loretypes.StatusActive,
	})
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-resolved", Timestamp: time.Now().Add(-30 * 24 * time.Hour),
		Decision: "already resolved", Outcome: loretypes.OutcomeSuccessful, Status: loretypes.StatusActive,
	})

	pending, err := ts.outcome.List(3)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dec-old", pending[0].Decision.ID)
	assert.GreaterOrEqual(t, pending[0].AgeDays, 9)
}

func TestResolveSuccessfulValidatesMatchingPatterns(t *testing.T) {
	ts := newTestStores(t)
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-1", Timestamp: time.Now().Add(-4 * 24 * time.Hour),
		Decision: "Adopt retry backoff", Outcome: loretypes.OutcomePending, Status: loretypes.StatusActive,
		Entities: []string{"backoff"},
	})
	patID, _, err := ts.patterns.Capture(pattern.CaptureInput{
		Name:     "Exponential backoff",
		Context:  "retrying flaky network calls",
		Problem:  "naive retry loops hammer a struggling dependency",
		Solution: "use backoff with jitter between attempts",
		Category: loretypes.CategoryBash,
	})
	require.NoError(t, err)

	require.NoError(t, ts.outcome.Resolve("dec-1", loretypes.OutcomeSuccessful, "worked well in practice"))

	d, err := ts.journal.Get("dec-1")
	require.NoError(t, err)
	assert.Equal(t, loretypes.OutcomeSuccessful, d.Outcome)
	assert.Equal(t, "worked well in practice", d.LessonLearned)

	p, err := ts.patterns.Show(patID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Validations)
}

func TestResolveAbandonedWritesFailure(t *testing.T) {
	ts := newTestStores(t)
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-2", Timestamp: time.Now().Add(-4 * 24 * time.Hour),
		Decision: "Use a single global cache", Rationale: "seemed simpler at the time",
		Outcome: loretypes.OutcomePending, Status: loretypes.StatusActive,
	})

	require.NoError(t, ts.outcome.Resolve("dec-2", loretypes.OutcomeAbandoned, ""))

	d, err := ts.journal.Get("dec-2")
	require.NoError(t, err)
	assert.Equal(t, loretypes.OutcomeAbandoned, d.Outcome)

	failures, err := ts.failures.List(failure.Filters{})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, AbandonedErrorType, failures[0].ErrorType)
	assert.Contains(t, failures[0].ErrorMessage, "Use a single global cache")
}

func TestResolveRevisedHasNoSideEffects(t *testing.T) {
	ts := newTestStores(t)
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-3", Timestamp: time.Now().Add(-4 * 24 * time.Hour),
		Decision: "Use polling instead of webhooks", Outcome: loretypes.OutcomePending, Status: loretypes.StatusActive,
	})

	require.NoError(t, ts.outcome.Resolve("dec-3", loretypes.OutcomeRevised, ""))

	d, err := ts.journal.Get("dec-3")
	require.NoError(t, err)
	assert.Equal(t, loretypes.OutcomeRevised, d.Outcome)

	failures, err := ts.failures.List(failure.Filters{})
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestResolveRejectsUnknownOutcome(t *testing.T) {
	ts := newTestStores(t)
	err := ts.outcome.Resolve("dec-missing", loretypes.OutcomePending, "")
	require.Error(t, err)
}

func TestResolveRejectsAlreadyResolvedDecision(t *testing.T) {
	ts := newTestStores(t)
	ts.appendBackdated(t, &loretypes.Decision{
		ID: "dec-4", Timestamp: time.Now().Add(-4 * 24 * time.Hour),
		Decision: "Use polling instead of webhooks", Outcome: loretypes.OutcomeSuccessful, Status: loretypes.StatusActive,
	})

	err := ts.outcome.Resolve("dec-4", loretypes.OutcomeRevised, "")
	require.Error(t, err)
	assert.True(t, loreerr.Is(err, loreerr.KindConflict))
}
