package briefing

import (
	"fmt"

	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// StalePendingDays is the age threshold spec.md §4.14 names for the
// subtraction check's "pending decisions" category (distinct from
// outcome's DefaultPendingDays, which resume/review tune independently).
const StalePendingDays = 14

// SubtractionReport is one summary line per §4.14 category, plus the
// matched records behind each line for `review`/`brief` to expand.
type SubtractionReport struct {
	Contradictions  []ContradictionPair
	StalePending    []DecisionHit
	UnvalidatedLow  []*loretypes.Pattern
	OrphanedDeprecated []*loretypes.Pattern
}

// SubtractionCheck runs the four advisory read-time checks resume
// invokes (spec.md §4.14): it never mutates state; if the journal or the
// pattern store cannot be read, it returns that error.
func (s *Store) SubtractionCheck() (*SubtractionReport, error) {
	r := &SubtractionReport{}

	decisions, err := s.journal.List(journal.Filters{ByOutcome: loretypes.OutcomePending})
	if err != nil {
		return nil, err
	}
	active, err := s.journal.List(journal.Filters{})
	if err != nil {
		return nil, err
	}
	var activeOnly []*loretypes.Decision
	for _, d := range active {
		if d.Status == loretypes.StatusActive {
			activeOnly = append(activeOnly, d)
		}
	}
	r.Contradictions = pairwiseContradictions(activeOnly)

	cutoff := loreid.Now().AddDate(0, 0, -StalePendingDays)
	for _, d := range decisions {
		if d.Timestamp.After(cutoff) {
			continue
		}
		r.StalePending = append(r.StalePending, DecisionHit{Decision: d, AgeDays: int(loreid.Now().Sub(d.Timestamp).Hours() / 24)})
	}

	patterns, err := s.patterns.List("")
	if err != nil {
		return nil, err
	}
	antiPatterns, err := s.patterns.ListAntiPatterns("")
	if err != nil {
		return nil, err
	}
	antiByCategory := map[loretypes.PatternCategory]bool{}
	for _, a := range antiPatterns {
		antiByCategory[a.Category] = true
	}
	for _, p := range patterns {
		if p.Confidence < 0.3 && p.Validations == 0 {
			r.UnvalidatedLow = append(r.UnvalidatedLow, p)
		}
		if p.Deprecated && !antiByCategory[p.Category] {
			r.OrphanedDeprecated = append(r.OrphanedDeprecated, p)
		}
	}

	return r, nil
}

// SummaryLines renders one line per category (spec.md §4.14); details
// live in the caller's `review`/`brief` output, not here.
func (r *SubtractionReport) SummaryLines() []string {
	return []string{
		fmt.Sprintf("contradictions: %d pair(s) found", len(r.Contradictions)),
		fmt.Sprintf("pending decisions older than %dd: %d", StalePendingDays, len(r.StalePending)),
		fmt.Sprintf("low-confidence unvalidated patterns: %d", len(r.UnvalidatedLow)),
		fmt.Sprintf("deprecated patterns without a replacement anti-pattern: %d", len(r.OrphanedDeprecated)),
	}
}
