// Package outcome implements the feedback loop (spec.md §4.11): it
// surfaces decisions whose outcome is still pending after N days and
// resolves them, propagating the result into the pattern catalogue (on
// success) or the failure log (on abandonment).
package outcome

import (
	"strings"

	"github.com/lore-dev/lore/internal/failure"
	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/pattern"
)

// DefaultPendingDays is the age threshold spec.md §4.11 uses when the
// caller does not specify one.
const DefaultPendingDays = 3

// AbandonedErrorType is the error_type written to the failure log when a
// decision is resolved as abandoned (spec.md §4.11).
const AbandonedErrorType = "AbandonedDecision"

// Store is the outcome component. Unlike sibling components it imports
// journal, pattern, and failure directly rather than through structural
// interfaces: it sits strictly downstream of all three (they never call
// back into it), so there is no import-cycle risk to guard against, and
// the alternative — re-declaring journal.Filters-shaped parameters behind
// an interface — would only rename the same coupling.
type Store struct {
	journal  *journal.Store
	patterns *pattern.Store
	failures *failure.Store
}

// New constructs an outcome Store over the journal, pattern, and failure
// components it coordinates.
func New(j *journal.Store, p *pattern.Store, f *failure.Store) *Store {
	return &Store{journal: j, patterns: p, failures: f}
}

// Pending is a decision awaiting resolution, with its age in days.
type Pending struct {
	Decision *loretypes.Decision
	AgeDays  int
}

// List returns active (non-retracted) decisions with outcome=pending
// older than olderThanDays, oldest first. A zero or negative
// olderThanDays uses DefaultPendingDays.
func (s *Store) List(olderThanDays int) ([]Pending, error) {
	if olderThanDays <= 0 {
		olderThanDays = DefaultPendingDays
	}
	decisions, err := s.journal.List(journal.Filters{ByOutcome: loretypes.OutcomePending})
	if err != nil {
		return nil, err
	}
	cutoff := loreid.Now().AddDate(0, 0, -olderThanDays)

	out := make([]Pending, 0, len(decisions))
	for _, d := range decisions {
		if d.Status == loretypes.StatusRetracted || d.Status == loretypes.StatusSuperseded {
			continue
		}
		if d.Timestamp.After(cutoff) {
			continue
		}
		out = append(out, Pending{Decision: d, AgeDays: int(loreid.Now().Sub(d.Timestamp).Hours() / 24)})
	}
	// Oldest first: List already returns newest-first, so reverse.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Outcome is the terminal resolution a pending decision can be given.
type Outcome = loretypes.DecisionOutcome

// Resolve records outcome (and an optional lesson) against a decision,
// then propagates the side effects spec.md §4.11 requires:
//   - successful: every pattern whose name/context/solution mentions one
//     of the decision's entities is validated (confidence and
//     validations both increase via pattern.Store.Validate).
//   - abandoned: a failure record is appended with
//     error_type="AbandonedDecision" describing the decision.
//   - revised: no side effect beyond the journal update.
func (s *Store) Resolve(id string, result Outcome, lesson string) error {
	switch result {
	case loretypes.OutcomeSuccessful, loretypes.OutcomeRevised, loretypes.OutcomeAbandoned:
	default:
		return loreerr.New(loreerr.KindUsage, "outcome.resolve", "outcome must be successful, revised, or abandoned")
	}

	d, err := s.journal.Get(id)
	if err != nil {
		return err
	}
	if d.Outcome != loretypes.OutcomePending {
		return loreerr.New(loreerr.KindConflict, "outcome.resolve",
			"decision "+id+" is not pending (outcome="+string(d.Outcome)+")")
	}
	if err := s.journal.Update(id, "outcome", result); err != nil {
		return err
	}
	if strings.TrimSpace(lesson) != "" {
		if err := s.journal.Update(id, "lesson_learned", lesson); err != nil {
			return err
		}
	}

	switch result {
	case loretypes.OutcomeSuccessful:
		return s.validateMatchingPatterns(d)
	case loretypes.OutcomeAbandoned:
		_, err := s.failures.Append(AbandonedErrorType, abandonedMessage(d), "outcome.resolve", "resolve", d.SessionID)
		return err
	default:
		return nil
	}
}

// validateMatchingPatterns validates every pattern whose name, context,
// or solution mentions one of d's entities, best-effort: a pattern we
// can't read shouldn't block resolving the decision that named it.
func (s *Store) validateMatchingPatterns(d *loretypes.Decision) error {
	if len(d.Entities) == 0 || s.patterns == nil {
		return nil
	}
	patterns, err := s.patterns.List("")
	if err != nil {
		return err
	}
	for _, p := range patterns {
		if !mentionsAny(p.Name, p.Context, p.Solution, d.Entities) {
			continue
		}
		if err := s.patterns.Validate(p.ID); err != nil {
			return err
		}
	}
	return nil
}

func mentionsAny(name, context, solution string, entities []string) bool {
	haystack := strings.ToLower(name + " " + context + " " + solution)
	for _, e := range entities {
		if e == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(e)) {
			return true
		}
	}
	return false
}

func abandonedMessage(d *loretypes.Decision) string {
	msg := "decision abandoned: " + d.Decision
	if d.Rationale != "" {
		msg += " (rationale: " + d.Rationale + ")"
	}
	return msg
}
