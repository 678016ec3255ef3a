package journal

import (
	"encoding/json"

	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loretypes"
)

func marshalDecision(d *loretypes.Decision) ([]byte, error) {
	return json.Marshal(d)
}

// readAll scans the journal file, tolerating a trailing partial line and
// skipping malformed ones (spec.md §4.2 failure semantics).
func (s *Store) readAll() ([]*loretypes.Decision, error) {
	var out []*loretypes.Decision
	_, err := lorepath.ReadJSONLines(s.layout.JournalFile(), func() any { return &loretypes.Decision{} },
		func(item any, _ int) error {
			out = append(out, item.(*loretypes.Decision))
			return nil
		})
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "journal.readAll", "read journal file", err)
	}
	return out, nil
}
