// Package transfer implements the session-handoff state machine
// (spec.md §4.6): init, snapshot, handoff, resume, and compress.
package transfer

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// GitInspector supplies repository state for snapshot. The teacher's own
// build tooling shells out to git directly; lore does the same through
// this seam so tests can substitute a fixture.
type GitInspector interface {
	State() (loretypes.GitState, error)
}

// Store is the transfer component.
type Store struct {
	layout *lorepath.Layout
	git    GitInspector
}

// Option configures a Store at construction.
type Option func(*Store)

// WithGitInspector overrides the default (no-op) git inspector.
func WithGitInspector(g GitInspector) Option {
	return func(s *Store) { s.git = g }
}

// New constructs a transfer Store rooted at layout.
func New(layout *lorepath.Layout, opts ...Option) *Store {
	s := &Store{layout: layout, git: noopGit{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

type noopGit struct{}

func (noopGit) State() (loretypes.GitState, error) { return loretypes.GitState{}, nil }

func (s *Store) lockPath() string { return s.layout.CurrentSessionFile() + ".lock" }

func (s *Store) readSession(id string) (*loretypes.Session, error) {
	data, err := os.ReadFile(s.layout.SessionFile(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, loreerr.New(loreerr.KindNotFound, "transfer.readSession", "session "+id+" not found")
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "transfer.readSession", "read session file", err)
	}
	var sess loretypes.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, loreerr.Wrap(loreerr.KindIntegrity, "transfer.readSession", "decode session file", err)
	}
	return &sess, nil
}

func (s *Store) writeSession(sess *loretypes.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "transfer.writeSession", "marshal session", err)
	}
	return lorepath.AtomicReplace(s.layout.SessionFile(sess.ID), data, 0o644)
}

// CurrentSessionID returns the id of the active session, or "" if none.
func (s *Store) CurrentSessionID() (string, error) {
	data, err := os.ReadFile(s.layout.CurrentSessionFile())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", loreerr.Wrap(loreerr.KindFatal, "transfer.currentSessionID", "read current-session tracker", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) setCurrentSessionID(id string) error {
	if id == "" {
		err := os.Remove(s.layout.CurrentSessionFile())
		if err != nil && !os.IsNotExist(err) {
			return loreerr.Wrap(loreerr.KindFatal, "transfer.setCurrentSessionID", "clear current-session tracker", err)
		}
		return nil
	}
	return lorepath.AtomicReplace(s.layout.CurrentSessionFile(), []byte(id), 0o644)
}

// Init starts a new session: nonexistent → active.
func (s *Store) Init(summary string) (string, error) {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "transfer.init", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	now := loreid.Now()
	sess := &loretypes.Session{
		ID:        loreid.NewSessionID(now),
		StartedAt: now,
		Summary:   summary,
	}
	if err := s.writeSession(sess); err != nil {
		return "", err
	}
	if err := s.setCurrentSessionID(sess.ID); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// SnapshotInput supplies the cross-component context a snapshot captures.
// Related* and Active* are assembled by the caller (the engine layer)
// since transfer has no direct dependency on journal/pattern.
type SnapshotInput struct {
	RecentCommands   []string
	Environment      map[string]string
	ActiveFiles      []string
	RelatedJournal   []string
	RelatedPatterns  []string
}

// Snapshot captures current context into the active session: active →
// active.
func (s *Store) Snapshot(sessionID string, in SnapshotInput) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "transfer.snapshot", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	sess, err := s.readSession(sessionID)
	if err != nil {
		return err
	}
	if !sess.EndedAt.IsZero() {
		return loreerr.New(loreerr.KindConflict, "transfer.snapshot", "session "+sessionID+" has already ended")
	}

	gitState, err := s.git.State()
	if err != nil {
		return loreerr.Wrap(loreerr.KindExternal, "transfer.snapshot", "inspect git state", err)
	}
	sess.GitState = gitState
	sess.Context = loretypes.SessionContext{
		ActiveFiles:    in.ActiveFiles,
		RecentCommands: in.RecentCommands,
		Environment:    in.Environment,
	}
	sess.Related.JournalEntries = mergeUnique(sess.Related.JournalEntries, in.RelatedJournal)
	sess.Related.Patterns = mergeUnique(sess.Related.Patterns, in.RelatedPatterns)

	return s.writeSession(sess)
}

// SetSpec sets (or, with spec == "", clears) a session's spec binding, the
// session side of goal assign/complete (spec.md §4.7 "assign" and
// "Completion"). The engine calls this alongside intent.Store.Assign/
// Complete since transfer has no dependency on intent to call it itself.
func (s *Store) SetSpec(sessionID, spec string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "transfer.setSpec", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	sess, err := s.readSession(sessionID)
	if err != nil {
		return err
	}
	sess.Context.Spec = spec
	return s.writeSession(sess)
}

func mergeUnique(existing, extra []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range append(existing, extra...) {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// HandoffInput is the closing message for a session.
type HandoffInput struct {
	Message   string
	NextSteps []string
	Blockers  []string
	Questions []string
}

// Handoff ends a session: active → ended.
func (s *Store) Handoff(sessionID string, in HandoffInput) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "transfer.handoff", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	sess, err := s.readSession(sessionID)
	if err != nil {
		return err
	}
	if !sess.EndedAt.IsZero() {
		return loreerr.New(loreerr.KindConflict, "transfer.handoff", "session "+sessionID+" has already ended")
	}

	now := loreid.Now()
	sess.EndedAt = now
	sess.Handoff = loretypes.Handoff{
		Message:   in.Message,
		NextSteps: in.NextSteps,
		Blockers:  in.Blockers,
		Questions: in.Questions,
		CreatedAt: now,
	}
	if err := s.writeSession(sess); err != nil {
		return err
	}

	current, err := s.CurrentSessionID()
	if err != nil {
		return err
	}
	if current == sessionID {
		return s.setCurrentSessionID("")
	}
	return nil
}

// Resume loads a session (latest started if id is empty). Pure read: it
// never transitions session state.
func (s *Store) Resume(id string) (*loretypes.Session, error) {
	if id != "" {
		return s.readSession(id)
	}
	ids, err := s.listSessionIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, loreerr.New(loreerr.KindNotFound, "transfer.resume", "no sessions recorded")
	}
	return s.readSession(ids[len(ids)-1])
}

// List returns every recorded session (uncompressed form), used by the
// search index build to index session summaries and handoff notes.
func (s *Store) List() ([]*loretypes.Session, error) {
	ids, err := s.listSessionIDs()
	if err != nil {
		return nil, err
	}
	out := make([]*loretypes.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.readSession(id)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

func (s *Store) listSessionIDs() ([]string, error) {
	entries, err := os.ReadDir(s.layout.SessionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "transfer.listSessionIDs", "read sessions dir", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.Contains(name, ".compressed.") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
