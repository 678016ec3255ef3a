// Package journal implements the append-only decision log (spec.md §4.2):
// write-time enrichment (id, timestamp, type, entities, spec quality),
// dedup and contradiction checks, file-based secondary indexes, and
// supersession-aware reads.
package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lore-dev/lore/internal/dedup"
	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// GraphNotifier lets the journal emit a mirrored graph node on record,
// without the journal package importing the graph package.
type GraphNotifier interface {
	NotifyDecision(id, text string) error
}

// SearchNotifier lets the journal mark the search index dirty on write
// without importing it; the retrieval engine rebuilds lazily or on demand.
type SearchNotifier interface {
	MarkDirty()
}

// Store is the journal component. It is safe for concurrent use; writes
// are serialized by an exclusive file lock on the journal file's lock
// sibling, per spec.md §5.
type Store struct {
	layout *lorepath.Layout
	graph  GraphNotifier
	search SearchNotifier
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithGraphNotifier wires a graph store to receive decision-node
// mirroring on every record.
func WithGraphNotifier(g GraphNotifier) Option {
	return func(s *Store) { s.graph = g }
}

// WithSearchNotifier wires a search index to be marked dirty on writes.
func WithSearchNotifier(n SearchNotifier) Option {
	return func(s *Store) { s.search = n }
}

// SetGraphNotifier wires a graph store after construction, for callers
// that build the journal and graph stores in a two-pass cycle (the graph
// store's own construction takes the journal as a DecisionUpdater).
func (s *Store) SetGraphNotifier(g GraphNotifier) { s.graph = g }

// New constructs a journal Store rooted at layout.
func New(layout *lorepath.Layout, opts ...Option) *Store {
	s := &Store{layout: layout}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) lockPath() string { return s.layout.JournalFile() + ".lock" }

// RecordInput is the caller-supplied portion of a new decision.
type RecordInput struct {
	SessionID        string
	Decision         string
	Rationale        string
	Alternatives     []string
	Type             loretypes.DecisionType // optional; auto-detected if empty
	Tags             []string
	LessonLearned    string
	RelatedDecisions []string
	GitCommit        string
	Force            bool // bypass the dedup guard
}

// Record enriches, dedup/contradiction-checks, and appends a new decision
// revision (spec.md §4.2). Returns the new decision's id.
func (s *Store) Record(in RecordInput) (string, []dedup.Match, error) {
	if strings.TrimSpace(in.Decision) == "" {
		return "", nil, loreerr.New(loreerr.KindUsage, "journal.record", "decision text is required")
	}

	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", nil, loreerr.Wrap(loreerr.KindFatal, "journal.record", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	active, err := s.latestActiveLocked()
	if err != nil {
		return "", nil, err
	}

	compareText := in.Decision + " " + in.Rationale
	candidates := make([]dedup.Candidate, 0, len(active))
	for _, d := range active {
		candidates = append(candidates, dedup.Candidate{
			ID:       d.ID,
			Text:     d.Decision + " " + d.Rationale,
			Entities: d.Entities,
		})
	}

	dupMatches := dedup.FindDuplicates(candidates, compareText)
	if len(dupMatches) > 0 && !in.Force {
		return "", dupMatches, loreerr.New(loreerr.KindConflict, "journal.record",
			fmt.Sprintf("possible duplicate of %d existing decision(s); pass Force to override", len(dupMatches)))
	}

	typ := in.Type
	if typ == "" {
		typ = DetectType(in.Decision + " " + in.Rationale)
	}
	entities := ExtractEntities(in.Decision + " " + in.Rationale + " " + in.LessonLearned)

	d := &loretypes.Decision{
		ID:               loreid.NewDecisionID(),
		Timestamp:        loreid.Now(),
		SessionID:        in.SessionID,
		Decision:         in.Decision,
		Rationale:        in.Rationale,
		Alternatives:     in.Alternatives,
		Outcome:          loretypes.OutcomePending,
		Type:             typ,
		Entities:         entities,
		Tags:             in.Tags,
		LessonLearned:    in.LessonLearned,
		RelatedDecisions: in.RelatedDecisions,
		GitCommit:        in.GitCommit,
		Status:           loretypes.StatusActive,
	}
	d.SpecQuality = SpecQuality(d)

	contradictions := dedup.FindContradictions(candidates, compareText, entities)

	if err := s.appendLocked(d); err != nil {
		return "", nil, err
	}
	if err := updateIndexes(s.layout.JournalIndexDir(), d); err != nil {
		return "", nil, loreerr.Wrap(loreerr.KindFatal, "journal.record", "update indexes", err)
	}

	if s.graph != nil {
		if err := s.graph.NotifyDecision(d.ID, d.Decision); err != nil {
			return "", nil, loreerr.Wrap(loreerr.KindFatal, "journal.record", "notify graph", err)
		}
	}
	if s.search != nil {
		s.search.MarkDirty()
	}

	return d.ID, contradictions, nil
}

func (s *Store) appendLocked(d *loretypes.Decision) error {
	data, err := marshalDecision(d)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.append", "marshal decision", err)
	}
	if err := lorepath.AppendLine(s.layout.JournalFile(), data); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.append", "append decision", err)
	}
	return nil
}

// Get returns the latest revision of the decision with the given id.
func (s *Store) Get(id string) (*loretypes.Decision, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	latest := latestRevisions(all)
	d, ok := latest[id]
	if !ok {
		return nil, loreerr.New(loreerr.KindNotFound, "journal.get", "decision "+id+" not found")
	}
	return d, nil
}

// Update appends a full new revision of decision id with field replaced
// by value. Never mutates prior lines (spec.md §4.2).
func (s *Store) Update(id, field string, value any) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.update", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	latest := latestRevisions(all)
	d, ok := latest[id]
	if !ok {
		return loreerr.New(loreerr.KindNotFound, "journal.update", "decision "+id+" not found")
	}
	revision := *d
	if err := applyField(&revision, field, value); err != nil {
		return err
	}
	revision.Timestamp = loreid.Now()

	if err := s.appendLocked(&revision); err != nil {
		return err
	}
	return updateIndexes(s.layout.JournalIndexDir(), &revision)
}

// MarkSuperseded appends a single revision of id marking it superseded by
// supersededBy, used by the graph store's supersedes edge side-effect
// (spec.md §3 "Edge side-effects"). A no-op if id is already retracted:
// spec.md §9 leaves "resurrect" semantics for a retracted target
// undefined, so the safest behavior is to leave retracted decisions
// untouched rather than guess at resurrection.
func (s *Store) MarkSuperseded(id, supersededBy string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.markSuperseded", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	latest := latestRevisions(all)
	d, ok := latest[id]
	if !ok {
		return loreerr.New(loreerr.KindNotFound, "journal.markSuperseded", "decision "+id+" not found")
	}
	if d.Status == loretypes.StatusRetracted {
		return nil
	}
	revision := *d
	revision.Status = loretypes.StatusSuperseded
	revision.SupersededBy = supersededBy
	revision.Timestamp = loreid.Now()

	if err := s.appendLocked(&revision); err != nil {
		return err
	}
	return updateIndexes(s.layout.JournalIndexDir(), &revision)
}

func applyField(d *loretypes.Decision, field string, value any) error {
	switch field {
	case "outcome":
		v, ok := value.(loretypes.DecisionOutcome)
		if !ok {
			return loreerr.New(loreerr.KindUsage, "journal.update", "outcome must be a DecisionOutcome")
		}
		d.Outcome = v
	case "status":
		v, ok := value.(loretypes.DecisionStatus)
		if !ok {
			return loreerr.New(loreerr.KindUsage, "journal.update", "status must be a DecisionStatus")
		}
		d.Status = v
	case "superseded_by":
		v, ok := value.(string)
		if !ok {
			return loreerr.New(loreerr.KindUsage, "journal.update", "superseded_by must be a string")
		}
		d.SupersededBy = v
	case "lesson_learned":
		v, ok := value.(string)
		if !ok {
			return loreerr.New(loreerr.KindUsage, "journal.update", "lesson_learned must be a string")
		}
		d.LessonLearned = v
	default:
		return loreerr.New(loreerr.KindUsage, "journal.update", "unknown field: "+field)
	}
	return nil
}

// Filters controls List's selection and ordering (spec.md §4.2).
type Filters struct {
	Recent        int
	ByType        loretypes.DecisionType
	ByOutcome     loretypes.DecisionOutcome
	ByTag         string
	ByProjectTag  string // tag-prefix match, e.g. "proj:"
	FromDate      time.Time
	ToDate        time.Time
	BySession     string
}

// List returns decisions matching Filters, deduplicated by id (latest
// revision kept), sorted by timestamp descending.
func (s *Store) List(f Filters) ([]*loretypes.Decision, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	latest := latestRevisions(all)

	out := make([]*loretypes.Decision, 0, len(latest))
	for _, d := range latest {
		if f.ByType != "" && d.Type != f.ByType {
			continue
		}
		if f.ByOutcome != "" && d.Outcome != f.ByOutcome {
			continue
		}
		if f.ByTag != "" && !containsFold(d.Tags, f.ByTag) {
			continue
		}
		if f.ByProjectTag != "" && !hasPrefixedTag(d.Tags, f.ByProjectTag) {
			continue
		}
		if f.BySession != "" && d.SessionID != f.BySession {
			continue
		}
		if !f.FromDate.IsZero() && d.Timestamp.Before(f.FromDate) {
			continue
		}
		if !f.ToDate.IsZero() && d.Timestamp.After(f.ToDate) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if f.Recent > 0 && len(out) > f.Recent {
		out = out[:f.Recent]
	}
	return out, nil
}

func containsFold(list []string, target string) bool {
	for _, v := range list {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func hasPrefixedTag(tags []string, prefix string) bool {
	for _, t := range tags {
		if strings.HasPrefix(strings.ToLower(t), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// Search performs a case-insensitive substring search across decision,
// rationale, lesson_learned, alternatives, entities, and tags.
func (s *Store) Search(query string) ([]*loretypes.Decision, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	latest := latestRevisions(all)
	q := strings.ToLower(query)

	var out []*loretypes.Decision
	for _, d := range latest {
		if matchesQuery(d, q) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func matchesQuery(d *loretypes.Decision, q string) bool {
	if strings.Contains(strings.ToLower(d.Decision), q) ||
		strings.Contains(strings.ToLower(d.Rationale), q) ||
		strings.Contains(strings.ToLower(d.LessonLearned), q) {
		return true
	}
	for _, a := range d.Alternatives {
		if strings.Contains(strings.ToLower(a), q) {
			return true
		}
	}
	for _, e := range d.Entities {
		if strings.Contains(strings.ToLower(e), q) {
			return true
		}
	}
	for _, t := range d.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Stats summarizes the journal: totals and histograms by type/outcome.
type Stats struct {
	Total        int
	ByType       map[loretypes.DecisionType]int
	ByOutcome    map[loretypes.DecisionOutcome]int
	AvgSpecQuality float64
}

// Stats computes totals and histograms over the latest revision set.
func (s *Store) Stats() (*Stats, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	latest := latestRevisions(all)

	st := &Stats{
		ByType:    map[loretypes.DecisionType]int{},
		ByOutcome: map[loretypes.DecisionOutcome]int{},
	}
	var qualitySum float64
	for _, d := range latest {
		st.Total++
		st.ByType[d.Type]++
		st.ByOutcome[d.Outcome]++
		qualitySum += d.SpecQuality
	}
	if st.Total > 0 {
		st.AvgSpecQuality = qualitySum / float64(st.Total)
	}
	return st, nil
}

// Compact rewrites the journal file keeping only the latest revision per
// id, and rebuilds every secondary index atomically (spec.md §4.2).
func (s *Store) Compact() error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.compact", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	latest := latestRevisions(all)

	ordered := make([]*loretypes.Decision, 0, len(latest))
	for _, d := range latest {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	var buf strings.Builder
	for _, d := range ordered {
		data, err := marshalDecision(d)
		if err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "journal.compact", "marshal decision", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := lorepath.AtomicReplace(s.layout.JournalFile(), []byte(buf.String()), 0o644); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "journal.compact", "replace journal file", err)
	}
	return rebuildIndexes(s.layout.JournalIndexDir(), ordered)
}

// latestActiveLocked returns the latest revision of every decision whose
// status is active, used to build dedup/contradiction candidate pools.
func (s *Store) latestActiveLocked() ([]*loretypes.Decision, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	latest := latestRevisions(all)
	out := make([]*loretypes.Decision, 0, len(latest))
	for _, d := range latest {
		if d.Status == loretypes.StatusActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func latestRevisions(all []*loretypes.Decision) map[string]*loretypes.Decision {
	latest := make(map[string]*loretypes.Decision, len(all))
	for _, d := range all {
		cur, ok := latest[d.ID]
		if !ok || d.Timestamp.After(cur.Timestamp) || d.Timestamp.Equal(cur.Timestamp) {
			latest[d.ID] = d
		}
	}
	return latest
}
