// Package pattern implements the pattern/anti-pattern catalogue
// (spec.md §4.3): a YAML document with confidence and validation
// counters, dedup-guarded capture, and regex-based code pattern checks.
package pattern

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lore-dev/lore/internal/dedup"
	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// document is the on-disk YAML shape: {patterns: [...], anti_patterns: [...]}.
type document struct {
	Patterns     []*loretypes.Pattern     `yaml:"patterns"`
	AntiPatterns []*loretypes.AntiPattern `yaml:"anti_patterns"`
}

// StaleConfidence is the confidence cutoff of the "stale" pattern
// threshold from spec.md §4.3: confidence<0.3 or validations==0.
const StaleConfidence = 0.3

// Store is the pattern component.
type Store struct {
	layout *lorepath.Layout
}

// New constructs a pattern Store rooted at layout.
func New(layout *lorepath.Layout) *Store {
	return &Store{layout: layout}
}

func (s *Store) lockPath() string { return s.layout.PatternsFile() + ".lock" }

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.layout.PatternsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "pattern.load", "read patterns file", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, loreerr.Wrap(loreerr.KindIntegrity, "pattern.load", "parse patterns yaml", err)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "pattern.save", "marshal patterns yaml", err)
	}
	if err := lorepath.AtomicReplace(s.layout.PatternsFile(), data, 0o644); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "pattern.save", "replace patterns file", err)
	}
	return nil
}

// CaptureInput is the caller-supplied portion of a new pattern.
type CaptureInput struct {
	Name       string
	Context    string
	Problem    string
	Solution   string
	Category   loretypes.PatternCategory
	Origin     string
	Examples   *loretypes.PatternExamples
	Force      bool
}

// Capture runs the dedup guard and appends a new pattern (spec.md §4.3).
func (s *Store) Capture(in CaptureInput) (string, []dedup.Match, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", nil, loreerr.New(loreerr.KindUsage, "pattern.capture", "name is required")
	}

	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", nil, loreerr.Wrap(loreerr.KindFatal, "pattern.capture", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return "", nil, err
	}

	compareText := in.Name + " " + in.Context + " " + in.Solution
	candidates := make([]dedup.Candidate, 0, len(doc.Patterns))
	for _, p := range doc.Patterns {
		candidates = append(candidates, dedup.Candidate{
			ID:   p.ID,
			Text: p.Name + " " + p.Context + " " + p.Solution,
		})
	}
	matches := dedup.FindDuplicates(candidates, compareText)
	if len(matches) > 0 && !in.Force {
		return "", matches, loreerr.New(loreerr.KindConflict, "pattern.capture",
			fmt.Sprintf("possible duplicate of %d existing pattern(s); pass Force to override", len(matches)))
	}

	p := &loretypes.Pattern{
		ID:         loreid.NewPatternID(),
		Name:       in.Name,
		Context:    in.Context,
		Problem:    in.Problem,
		Solution:   in.Solution,
		Category:   in.Category,
		Origin:     in.Origin,
		Confidence: 0.5,
		CreatedAt:  loreid.Now(),
		Examples:   in.Examples,
	}
	p.SpecQuality = specQuality(p)

	doc.Patterns = append(doc.Patterns, p)
	if err := s.save(doc); err != nil {
		return "", nil, err
	}
	return p.ID, nil, nil
}

// specQuality computes a pattern's completeness score per spec.md §3:
//
//	0.2·name + 0.3·context>10 + 0.3·solution>10 + 0.2·problem>10
func specQuality(p *loretypes.Pattern) float64 {
	var score float64
	if p.Name != "" {
		score += 0.2
	}
	if len(p.Context) > 10 {
		score += 0.3
	}
	if len(p.Solution) > 10 {
		score += 0.3
	}
	if len(p.Problem) > 10 {
		score += 0.2
	}
	return score
}

// Validate increments validations and raises confidence by 0.05 (capped
// at 1.0), per spec.md §4.3.
func (s *Store) Validate(id string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "pattern.validate", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	p := findPattern(doc, id)
	if p == nil {
		return loreerr.New(loreerr.KindNotFound, "pattern.validate", "pattern "+id+" not found")
	}
	p.Validations++
	p.Confidence += 0.05
	if p.Confidence > 1.0 {
		p.Confidence = 1.0
	}
	return s.save(doc)
}

// Deprecate sets deprecated=true and prefixes the name "[DEPRECATED]".
func (s *Store) Deprecate(id string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "pattern.deprecate", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	p := findPattern(doc, id)
	if p == nil {
		return loreerr.New(loreerr.KindNotFound, "pattern.deprecate", "pattern "+id+" not found")
	}
	if !p.Deprecated {
		p.Deprecated = true
		if !strings.HasPrefix(p.Name, "[DEPRECATED]") {
			p.Name = "[DEPRECATED] " + p.Name
		}
	}
	return s.save(doc)
}

// Warn appends a new anti-pattern record (spec.md §4.3).
func (s *Store) Warn(symptom, risk, fix, name string, category loretypes.PatternCategory, severity loretypes.AntiPatternSeverity) (string, error) {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "pattern.warn", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return "", err
	}
	a := &loretypes.AntiPattern{
		ID:        loreid.NewAntiPatternID(),
		Name:      name,
		Symptom:   symptom,
		Risk:      risk,
		Fix:       fix,
		Category:  category,
		Severity:  severity,
		CreatedAt: loreid.Now(),
	}
	doc.AntiPatterns = append(doc.AntiPatterns, a)
	if err := s.save(doc); err != nil {
		return "", err
	}
	return a.ID, nil
}

// Show returns a single pattern by id.
func (s *Store) Show(id string) (*loretypes.Pattern, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	p := findPattern(doc, id)
	if p == nil {
		return nil, loreerr.New(loreerr.KindNotFound, "pattern.show", "pattern "+id+" not found")
	}
	return p, nil
}

// List returns patterns optionally filtered by category.
func (s *Store) List(category loretypes.PatternCategory) ([]*loretypes.Pattern, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return doc.Patterns, nil
	}
	var out []*loretypes.Pattern
	for _, p := range doc.Patterns {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAntiPatterns returns every recorded anti-pattern, optionally
// filtered by category.
func (s *Store) ListAntiPatterns(category loretypes.PatternCategory) ([]*loretypes.AntiPattern, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return doc.AntiPatterns, nil
	}
	var out []*loretypes.AntiPattern
	for _, a := range doc.AntiPatterns {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

// IsStale reports whether a pattern is below the confidence/validation
// threshold spec.md §4.3 calls "stale": confidence<0.3 or validations==0.
func IsStale(p *loretypes.Pattern) bool {
	return p.Confidence < StaleConfidence || p.Validations == 0
}

// FindByErrorType reports whether an anti-pattern already exists whose
// name mentions errorType, used by the promotion-suggestion flow.
func (s *Store) FindByErrorType(errorType string) (*loretypes.AntiPattern, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(errorType)
	for _, a := range doc.AntiPatterns {
		if strings.Contains(strings.ToLower(a.Name), lower) || strings.Contains(strings.ToLower(a.Symptom), lower) {
			return a, nil
		}
	}
	return nil, nil
}

func findPattern(doc *document, id string) *loretypes.Pattern {
	for _, p := range doc.Patterns {
		if p.ID == id {
			return p
		}
	}
	return nil
}
