// Package failure implements the append-only failure log (spec.md §4.4).
package failure

import (
	"sort"
	"strings"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// RuleOfThree is the recurrence count at which spec.md §4.3/§9 proposes
// (but never auto-creates) an anti-pattern for a recurring error type.
const RuleOfThree = 3

// Store is the failure component.
type Store struct {
	layout *lorepath.Layout
}

// New constructs a failure Store rooted at layout.
func New(layout *lorepath.Layout) *Store {
	return &Store{layout: layout}
}

func (s *Store) lockPath() string { return s.layout.FailuresFile() + ".lock" }

// Append assigns an id and timestamp and appends a new failure record.
func (s *Store) Append(errorType, message, tool, step, sessionID string) (string, error) {
	if strings.TrimSpace(errorType) == "" {
		return "", loreerr.New(loreerr.KindUsage, "failure.append", "error_type is required")
	}
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "failure.append", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	f := &loretypes.Failure{
		ID:           loreid.NewFailureID(),
		Timestamp:    loreid.Now(),
		ErrorType:    errorType,
		ErrorMessage: message,
		Tool:         tool,
		Step:         step,
		SessionID:    sessionID,
	}
	data, err := marshal(f)
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "failure.append", "marshal failure", err)
	}
	if err := lorepath.AppendLine(s.layout.FailuresFile(), data); err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "failure.append", "append failure", err)
	}
	return f.ID, nil
}

// Filters controls List's selection.
type Filters struct {
	ErrorType string
	Tool      string
}

// List returns failures matching Filters, newest first.
func (s *Store) List(f Filters) ([]*loretypes.Failure, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	var out []*loretypes.Failure
	for _, item := range all {
		if f.ErrorType != "" && item.ErrorType != f.ErrorType {
			continue
		}
		if f.Tool != "" && item.Tool != f.Tool {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// StatsByType aggregates failure counts per error_type.
func (s *Store) StatsByType() (map[string]int, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, f := range all {
		counts[f.ErrorType]++
	}
	return counts, nil
}

// RecursCount returns how many times errorType has been recorded.
func (s *Store) RecursCount(errorType string) (int, error) {
	counts, err := s.StatsByType()
	if err != nil {
		return 0, err
	}
	return counts[errorType], nil
}

func (s *Store) readAll() ([]*loretypes.Failure, error) {
	var out []*loretypes.Failure
	_, err := lorepath.ReadJSONLines(s.layout.FailuresFile(), func() any { return &loretypes.Failure{} },
		func(item any, _ int) error {
			out = append(out, item.(*loretypes.Failure))
			return nil
		})
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "failure.readAll", "read failures file", err)
	}
	return out, nil
}
