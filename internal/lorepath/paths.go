// Package lorepath resolves every on-disk location lore touches from a
// single data root and provides the atomic-replace and append primitives
// every store builds on (spec.md §4.1, §6).
package lorepath

import (
	"os"
	"path/filepath"
)

// Layout resolves all file locations beneath a data root, matching the
// on-disk layout fixed in spec.md §6.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root. It does not create any
// directories; call EnsureDirs for that.
func New(root string) *Layout {
	return &Layout{Root: root}
}

func (l *Layout) join(parts ...string) string {
	return filepath.Join(append([]string{l.Root}, parts...)...)
}

func (l *Layout) JournalFile() string    { return l.join("journal", "data", "decisions.jsonl") }
func (l *Layout) JournalIndexDir() string { return l.join("journal", "data", "index") }
func (l *Layout) PatternsFile() string   { return l.join("patterns", "data", "patterns.yaml") }
func (l *Layout) FailuresFile() string   { return l.join("failures", "data", "failures.jsonl") }
func (l *Layout) InboxFile() string      { return l.join("inbox", "data", "observations.jsonl") }
func (l *Layout) GraphFile() string      { return l.join("graph", "data", "graph.json") }
func (l *Layout) GoalsDir() string       { return l.join("intent", "data", "goals") }
func (l *Layout) SessionsDir() string    { return l.join("transfer", "data", "sessions") }
func (l *Layout) CurrentSessionFile() string {
	return l.join("transfer", "data", ".current_session")
}
func (l *Layout) SearchDBFile() string { return l.join("search.db") }
func (l *Layout) ConfigFile() string   { return l.join("lore.toml") }

// EnsureDirs creates every directory this layout depends on.
func (l *Layout) EnsureDirs() error {
	dirs := []string{
		filepath.Dir(l.JournalFile()),
		l.JournalIndexDir(),
		filepath.Dir(l.PatternsFile()),
		filepath.Dir(l.FailuresFile()),
		filepath.Dir(l.InboxFile()),
		filepath.Dir(l.GraphFile()),
		l.GoalsDir(),
		l.SessionsDir(),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// GoalFile returns the path of a single goal record.
func (l *Layout) GoalFile(goalID string) string {
	return filepath.Join(l.GoalsDir(), goalID+".yaml")
}

// SessionFile returns the path of a single session record.
func (l *Layout) SessionFile(sessionID string) string {
	return filepath.Join(l.SessionsDir(), sessionID+".json")
}

// CompressedSessionFile returns the path of a session's compressed form.
func (l *Layout) CompressedSessionFile(sessionID string) string {
	return filepath.Join(l.SessionsDir(), sessionID+".compressed.json")
}
