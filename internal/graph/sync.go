package graph

import "github.com/lore-dev/lore/internal/loretypes"

// SyncDecision is the minimal view of an active decision the sync
// operation needs. The engine assembles this list from the journal
// store so that graph never imports the journal package.
type SyncDecision struct {
	ID   string
	Text string
}

// Sync ensures each active decision in decisions has a corresponding
// decision-* node carrying data.journal_id, without duplicating existing
// mirrors. Idempotent: re-running yields zero additions (spec.md §4.5, §8).
func (s *Store) Sync(decisions []SyncDecision) (added int, err error) {
	seen := map[string]bool{}
	for _, d := range decisions {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true

		existing, _ := s.FindByName(d.Text)
		mirrored := false
		for _, n := range existing {
			if n.Type == loretypes.NodeDecision {
				mirrored = true
				break
			}
		}
		if mirrored {
			continue
		}
		if _, err := s.AddNode(loretypes.NodeDecision, d.Text, map[string]any{"journal_id": d.ID}); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
