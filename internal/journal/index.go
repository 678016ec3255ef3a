package journal

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loretypes"
)

var unsafeIndexChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// safeIndexValue sanitizes a free-form value (an entity or tag) into a
// filesystem-safe fragment for use in an index file name.
func safeIndexValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return unsafeIndexChars.ReplaceAllString(v, "_")
}

func indexFileName(dimension, value string) string {
	return dimension + "_" + safeIndexValue(value) + ".idx"
}

// appendToIndex appends id to the index file for (dimension, value),
// creating it if absent. Index files are newline-separated decision ID
// lists; duplicate appends (e.g. re-recording the same revision) are
// tolerated because list() always deduplicates by scanning the journal
// itself, so indexes only need to be a candidate superset.
func appendToIndex(indexDir, dimension, value, id string) error {
	path := filepath.Join(indexDir, indexFileName(dimension, value))
	return lorepath.AppendLine(path, []byte(id))
}

// updateIndexes writes every secondary index entry for a decision
// revision: date, type, each entity, each tag (spec.md §4.2).
func updateIndexes(indexDir string, d *loretypes.Decision) error {
	if err := appendToIndex(indexDir, "date", d.Timestamp.Format("2006-01-02"), d.ID); err != nil {
		return err
	}
	if err := appendToIndex(indexDir, "type", string(d.Type), d.ID); err != nil {
		return err
	}
	for _, e := range d.Entities {
		if err := appendToIndex(indexDir, "entity", e, d.ID); err != nil {
			return err
		}
	}
	for _, t := range d.Tags {
		if err := appendToIndex(indexDir, "tag", t, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// rebuildIndexes wipes and rewrites every index file from scratch given
// the latest-revision set of decisions, used by compact().
func rebuildIndexes(indexDir string, decisions []*loretypes.Decision) error {
	if err := os.RemoveAll(indexDir); err != nil {
		return err
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return err
	}
	for _, d := range decisions {
		if err := updateIndexes(indexDir, d); err != nil {
			return err
		}
	}
	return nil
}
