package loreid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDPrefixesAndLengths(t *testing.T) {
	assert.Regexp(t, `^dec-[0-9a-f]{8}$`, NewDecisionID())
	assert.Regexp(t, `^pat-[0-9a-f]{8}$`, NewPatternID())
	assert.Regexp(t, `^anti-[0-9a-f]{8}$`, NewAntiPatternID())
	assert.Regexp(t, `^fail-[0-9a-f]{8}$`, NewFailureID())
	assert.Regexp(t, `^obs-[0-9a-f]{8}$`, NewObservationID())

	at := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	assert.Regexp(t, `^session-20260730-120000-[0-9a-f]{6}$`, NewSessionID(at))
	assert.Regexp(t, `^goal-\d+-[0-9a-f]{6}$`, NewGoalID(at))
}

func TestIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewDecisionID()
		assert.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}

func TestGraphNodeIDIsDeterministic(t *testing.T) {
	a := GraphNodeID("concept", "retrieval engine")
	b := GraphNodeID("concept", "retrieval engine")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, GraphNodeID("concept", "ranking formula"))
}

func TestDecisionNodeIDIsDeterministic(t *testing.T) {
	a := DecisionNodeID("use SQLite for the search index")
	b := DecisionNodeID("use SQLite for the search index")
	assert.Equal(t, a, b)
}

func TestFormatAndParseTimeRoundTrip(t *testing.T) {
	at := time.Date(2026, 7, 30, 12, 34, 56, 789, time.UTC)
	s := Format(at)
	assert.Equal(t, "2026-07-30T12:34:56Z", s)

	parsed, err := ParseTime(s)
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(at.Truncate(time.Second)))
}
