// Package loreid generates the typed identifiers and UTC timestamps used
// across every lore store: deterministic content-hash ids for graph nodes,
// and random short-hex ids for decisions, patterns, failures, and sessions.
package loreid

import (
	"crypto/md5" //nolint:gosec // used for deterministic addressing, not security
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Now returns the current instant truncated to second precision in UTC,
// matching the ISO-8601 second-precision timestamps used throughout lore.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Format renders a timestamp as ISO-8601 UTC, e.g. "2026-07-30T12:00:00Z".
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ParseTime parses an ISO-8601 UTC timestamp produced by Format.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// randomHex returns n random hex characters (n must be even for exact
// length, and at most 32 since a v4 UUID supplies 16 bytes of entropy).
func randomHex(n int) string {
	id, err := uuid.NewRandom()
	if err != nil {
		// crypto/rand failing is unrecoverable; fall back to a time-seeded
		// value rather than panic so callers never see a partial id.
		return hex.EncodeToString([]byte(fmt.Sprintf("%x", time.Now().UnixNano())))[:n]
	}
	return hex.EncodeToString(id[:])[:n]
}

// NewDecisionID returns a new "dec-<8 hex>" id.
func NewDecisionID() string { return "dec-" + randomHex(8) }

// NewPatternID returns a new "pat-<8 hex>" id.
func NewPatternID() string { return "pat-" + randomHex(8) }

// NewAntiPatternID returns a new "anti-<8 hex>" id.
func NewAntiPatternID() string { return "anti-" + randomHex(8) }

// NewFailureID returns a new "fail-<8 hex>" id.
func NewFailureID() string { return "fail-" + randomHex(8) }

// NewObservationID returns a new "obs-<8 hex>" id.
func NewObservationID() string { return "obs-" + randomHex(8) }

// NewSessionID returns a new "session-YYYYMMDD-HHMMSS-<hex>" id.
func NewSessionID(at time.Time) string {
	return fmt.Sprintf("session-%s-%s", at.UTC().Format("20060102-150405"), randomHex(6))
}

// NewGoalID returns a new "goal-<epoch>-<hex>" id.
func NewGoalID(at time.Time) string {
	return fmt.Sprintf("goal-%d-%s", at.Unix(), randomHex(6))
}

// GraphNodeID computes the deterministic id of a graph node: the node
// type, a hyphen, and the first 8 hex characters of the MD5 digest of its
// name. Identical (type, name) pairs always produce the same id, which is
// the invariant the graph store's upsert-by-key semantics depend on.
func GraphNodeID(nodeType, name string) string {
	sum := md5.Sum([]byte(name)) //nolint:gosec
	return fmt.Sprintf("%s-%s", nodeType, hex.EncodeToString(sum[:])[:8])
}

// DecisionNodeID computes the deterministic graph node id used to mirror a
// decision: "decision-<md5(text)>" using the full decision text as content.
func DecisionNodeID(text string) string {
	sum := md5.Sum([]byte(text)) //nolint:gosec
	return fmt.Sprintf("decision-%s", hex.EncodeToString(sum[:])[:8])
}
