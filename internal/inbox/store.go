// Package inbox implements the append-only observation staging area
// (spec.md §4.12): observe, list, promote, discard.
package inbox

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// Store is the inbox component. Observations are appended to a JSONL log;
// status transitions (promote/discard) are tracked in a sibling overlay
// file keyed by observation id, rewritten atomically, so the original
// JSONL log is never mutated in place.
type Store struct {
	layout *lorepath.Layout
}

// New constructs an inbox Store rooted at layout.
func New(layout *lorepath.Layout) *Store {
	return &Store{layout: layout}
}

func (s *Store) lockPath() string   { return s.layout.InboxFile() + ".lock" }
func (s *Store) overlayPath() string { return s.layout.InboxFile() + ".status.json" }

// Observe appends a new raw observation.
func (s *Store) Observe(content, source string, tags []string) (string, error) {
	if content == "" {
		return "", loreerr.New(loreerr.KindUsage, "inbox.observe", "content is required")
	}
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "inbox.observe", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	o := &loretypes.Observation{
		ID:        loreid.NewObservationID(),
		Timestamp: loreid.Now(),
		Source:    source,
		Content:   content,
		Status:    loretypes.ObsRaw,
		Tags:      tags,
	}
	data, err := json.Marshal(o)
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "inbox.observe", "marshal observation", err)
	}
	if err := lorepath.AppendLine(s.layout.InboxFile(), data); err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "inbox.observe", "append observation", err)
	}
	return o.ID, nil
}

func (s *Store) readAll() ([]*loretypes.Observation, error) {
	var out []*loretypes.Observation
	_, err := lorepath.ReadJSONLines(s.layout.InboxFile(), func() any { return &loretypes.Observation{} },
		func(item any, _ int) error {
			out = append(out, item.(*loretypes.Observation))
			return nil
		})
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "inbox.readAll", "read observations file", err)
	}
	return out, nil
}

func (s *Store) readOverlay() (map[string]loretypes.ObservationStatus, error) {
	data, err := os.ReadFile(s.overlayPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]loretypes.ObservationStatus{}, nil
		}
		return nil, err
	}
	overlay := map[string]loretypes.ObservationStatus{}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}
	return overlay, nil
}

func (s *Store) setStatus(id string, status loretypes.ObservationStatus) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "inbox.setStatus", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	found := false
	for _, o := range all {
		if o.ID == id {
			found = true
			break
		}
	}
	if !found {
		return loreerr.New(loreerr.KindNotFound, "inbox.setStatus", "observation "+id+" not found")
	}

	overlay, err := s.readOverlay()
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "inbox.setStatus", "read status overlay", err)
	}
	overlay[id] = status
	data, err := json.Marshal(overlay)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "inbox.setStatus", "marshal status overlay", err)
	}
	if err := lorepath.AtomicReplace(s.overlayPath(), data, 0o644); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "inbox.setStatus", "replace status overlay", err)
	}
	return nil
}

// Promote marks an observation promoted. It does not create the target
// entry: callers separately call journal.Record/pattern.Capture with the
// observation's content (spec.md §4.12).
func (s *Store) Promote(id string) error {
	return s.setStatus(id, loretypes.ObsPromoted)
}

// Discard marks an observation discarded.
func (s *Store) Discard(id string) error {
	return s.setStatus(id, loretypes.ObsDiscarded)
}

// List returns observations optionally filtered by status, newest first,
// with overlay status transitions applied.
func (s *Store) List(status loretypes.ObservationStatus) ([]*loretypes.Observation, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	overlay, err := s.readOverlay()
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "inbox.list", "read status overlay", err)
	}

	var out []*loretypes.Observation
	for _, o := range all {
		if st, ok := overlay[o.ID]; ok {
			o.Status = st
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
