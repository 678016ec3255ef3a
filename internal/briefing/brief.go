// Package briefing composes the topic-scoped cross-component reads
// (spec.md §4.13 "brief <topic>"): it reads from the journal, pattern,
// failure, and graph stores and renders structured markdown, without
// mutating any of them. Like outcome, it imports those stores directly
// rather than through structural interfaces — it is a pure downstream
// reader, never called back into, so there is no cycle to avoid.
package briefing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lore-dev/lore/internal/dedup"
	"github.com/lore-dev/lore/internal/failure"
	"github.com/lore-dev/lore/internal/graph"
	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/pattern"
)

// Store composes a brief from the journal, pattern, failure, and graph
// components.
type Store struct {
	journal  *journal.Store
	patterns *pattern.Store
	failures *failure.Store
	graph    *graph.Store
}

// New constructs a briefing Store over the four components it reads.
func New(j *journal.Store, p *pattern.Store, f *failure.Store, g *graph.Store) *Store {
	return &Store{journal: j, patterns: p, failures: f, graph: g}
}

// ContradictionPair is two decisions flagged as contradicting each other
// (spec.md §4.10 pairwise scan).
type ContradictionPair struct {
	A, B *loretypes.Decision
}

// DecisionHit is one matched decision with its derived age.
type DecisionHit struct {
	Decision *loretypes.Decision
	AgeDays  int
}

// PatternHit is one matched pattern flagged stale or not.
type PatternHit struct {
	Pattern *loretypes.Pattern
	Stale   bool
}

// FailureGroup summarizes failures of one error_type matched by topic.
type FailureGroup struct {
	ErrorType       string
	Count           int
	HasAntiPattern  bool
}

// GraphHit is a matched graph node plus its 1-hop edges.
type GraphHit struct {
	Node  *loretypes.GraphNode
	Edges []EdgeLine
}

// EdgeLine renders one directed edge as "from → relation → to".
type EdgeLine struct {
	From, Relation, To string
}

// Report is the structured result of a Brief call.
type Report struct {
	Topic         string
	Decisions     []DecisionHit
	Contradictions []ContradictionPair
	Patterns      []PatternHit
	Failures      []FailureGroup
	Graph         []GraphHit
}

// Brief composes a topic-scoped report over all four components
// (spec.md §4.13).
func (s *Store) Brief(topic string) (*Report, error) {
	r := &Report{Topic: topic}

	decisions, contradictions, err := s.briefDecisions(topic)
	if err != nil {
		return nil, err
	}
	r.Decisions, r.Contradictions = decisions, contradictions

	patterns, err := s.briefPatterns(topic)
	if err != nil {
		return nil, err
	}
	r.Patterns = patterns

	failures, err := s.briefFailures(topic)
	if err != nil {
		return nil, err
	}
	r.Failures = failures

	if s.graph != nil {
		graphHits, err := s.briefGraph(topic)
		if err != nil {
			return nil, err
		}
		r.Graph = graphHits
	}

	return r, nil
}

func (s *Store) briefDecisions(topic string) ([]DecisionHit, []ContradictionPair, error) {
	all, err := s.journal.List(journal.Filters{})
	if err != nil {
		return nil, nil, err
	}
	needle := strings.ToLower(topic)

	var matched []*loretypes.Decision
	for _, d := range all {
		if d.Status != loretypes.StatusActive {
			continue
		}
		if matchesTopic(d, needle) {
			matched = append(matched, d)
		}
	}

	hits := make([]DecisionHit, 0, len(matched))
	now := loreid.Now()
	for _, d := range matched {
		hits = append(hits, DecisionHit{Decision: d, AgeDays: int(now.Sub(d.Timestamp).Hours() / 24)})
	}
	return hits, pairwiseContradictions(matched), nil
}

func matchesTopic(d *loretypes.Decision, needle string) bool {
	if strings.Contains(strings.ToLower(d.Decision), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Rationale), needle) {
		return true
	}
	for _, e := range d.Entities {
		if strings.Contains(strings.ToLower(e), needle) {
			return true
		}
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// pairwiseContradictions runs dedup.FindContradictions for every decision
// in matched against every other one, deduplicating symmetric pairs.
func pairwiseContradictions(matched []*loretypes.Decision) []ContradictionPair {
	if len(matched) < 2 {
		return nil
	}
	candidates := make([]dedup.Candidate, len(matched))
	for i, d := range matched {
		candidates[i] = dedup.Candidate{ID: d.ID, Text: d.Decision + " " + d.Rationale, Entities: d.Entities}
	}

	seen := map[string]bool{}
	var pairs []ContradictionPair
	for i, d := range matched {
		others := append(append([]dedup.Candidate{}, candidates[:i]...), candidates[i+1:]...)
		for _, m := range dedup.FindContradictions(others, d.Decision+" "+d.Rationale, d.Entities) {
			key := pairKey(d.ID, m.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			other := findDecision(matched, m.ID)
			if other != nil {
				pairs = append(pairs, ContradictionPair{A: d, B: other})
			}
		}
	}
	return pairs
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func findDecision(decisions []*loretypes.Decision, id string) *loretypes.Decision {
	for _, d := range decisions {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Store) briefPatterns(topic string) ([]PatternHit, error) {
	patterns, err := s.patterns.List("")
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(topic)

	var hits []PatternHit
	for _, p := range patterns {
		haystack := strings.ToLower(p.Name + " " + p.Context + " " + p.Solution + " " + p.Problem)
		if !strings.Contains(haystack, needle) {
			continue
		}
		hits = append(hits, PatternHit{Pattern: p, Stale: pattern.IsStale(p)})
	}
	return hits, nil
}

func (s *Store) briefFailures(topic string) ([]FailureGroup, error) {
	failures, err := s.failures.List(failure.Filters{})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(topic)

	counts := map[string]int{}
	var order []string
	for _, f := range failures {
		haystack := strings.ToLower(f.ErrorType + " " + f.ErrorMessage)
		if !strings.Contains(haystack, needle) {
			continue
		}
		if _, ok := counts[f.ErrorType]; !ok {
			order = append(order, f.ErrorType)
		}
		counts[f.ErrorType]++
	}

	groups := make([]FailureGroup, 0, len(order))
	for _, errType := range order {
		anti, err := s.patterns.FindByErrorType(errType)
		if err != nil {
			return nil, err
		}
		groups = append(groups, FailureGroup{ErrorType: errType, Count: counts[errType], HasAntiPattern: anti != nil})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	return groups, nil
}

func (s *Store) briefGraph(topic string) ([]GraphHit, error) {
	matches, err := s.graph.Search(topic, graph.SearchFilters{})
	if err != nil {
		return nil, err
	}
	hits := make([]GraphHit, 0, len(matches))
	for _, m := range matches {
		n := m.Node
		out, err := s.graph.Outgoing(n.ID)
		if err != nil {
			return nil, err
		}
		in, err := s.graph.Incoming(n.ID)
		if err != nil {
			return nil, err
		}
		var edges []EdgeLine
		for _, e := range out {
			edges = append(edges, EdgeLine{From: n.Name, Relation: string(e.Relation), To: e.To})
		}
		for _, e := range in {
			edges = append(edges, EdgeLine{From: e.From, Relation: string(e.Relation), To: n.Name})
		}
		hits = append(hits, GraphHit{Node: n, Edges: edges})
	}
	return hits, nil
}

// Render formats a Report as structured markdown suitable for agent
// consumption (spec.md §4.13).
func Render(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Brief: %s\n\n", r.Topic)

	b.WriteString("## Decisions\n\n")
	if len(r.Decisions) == 0 {
		b.WriteString("_none_\n\n")
	}
	for _, h := range r.Decisions {
		fmt.Fprintf(&b, "- `%s` (%dd old, quality=%.2f, outcome=%s): %s\n",
			h.Decision.ID, h.AgeDays, h.Decision.SpecQuality, h.Decision.Outcome, h.Decision.Decision)
	}
	if len(r.Contradictions) > 0 {
		b.WriteString("\n**Contradictions:**\n\n")
		for _, c := range r.Contradictions {
			fmt.Fprintf(&b, "- `%s` ⟷ `%s`\n", c.A.ID, c.B.ID)
		}
	}

	b.WriteString("\n## Patterns\n\n")
	if len(r.Patterns) == 0 {
		b.WriteString("_none_\n\n")
	}
	for _, h := range r.Patterns {
		stale := ""
		if h.Stale {
			stale = " (stale)"
		}
		fmt.Fprintf(&b, "- `%s` %s%s: %s\n", h.Pattern.ID, h.Pattern.Name, stale, h.Pattern.Solution)
	}

	b.WriteString("\n## Failures\n\n")
	if len(r.Failures) == 0 {
		b.WriteString("_none_\n\n")
	}
	for _, g := range r.Failures {
		fmt.Fprintf(&b, "- %s ×%d (anti-pattern recorded: %t)\n", g.ErrorType, g.Count, g.HasAntiPattern)
	}

	b.WriteString("\n## Graph\n\n")
	if len(r.Graph) == 0 {
		b.WriteString("_none_\n")
	}
	for _, h := range r.Graph {
		for _, e := range h.Edges {
			fmt.Fprintf(&b, "- %s → %s → %s\n", e.From, e.Relation, e.To)
		}
	}

	return b.String()
}
