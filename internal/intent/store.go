// Package intent implements the goal/spec layer (spec.md §4.7): goal
// lifecycle, success criteria, external spec import, and completion.
package intent

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// nextPhase is the fixed lifecycle progression spec.md §4.7 names.
var nextPhase = map[loretypes.LifecyclePhase]loretypes.LifecyclePhase{
	loretypes.PhaseSpecify:   loretypes.PhasePlan,
	loretypes.PhasePlan:      loretypes.PhaseTasks,
	loretypes.PhaseTasks:     loretypes.PhaseImplement,
	loretypes.PhaseImplement: loretypes.PhaseComplete,
}

// Store is the intent component. Each goal is its own YAML file under the
// goals directory, named by id, matching the teacher's one-record-per-file
// convention for long-lived reference entities.
type Store struct {
	layout *lorepath.Layout
}

// New constructs an intent Store rooted at layout.
func New(layout *lorepath.Layout) *Store {
	return &Store{layout: layout}
}

func (s *Store) lockPath(id string) string { return s.layout.GoalFile(id) + ".lock" }

func (s *Store) load(id string) (*loretypes.Goal, error) {
	data, err := os.ReadFile(s.layout.GoalFile(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, loreerr.New(loreerr.KindNotFound, "intent.load", "goal "+id+" not found")
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "intent.load", "read goal file", err)
	}
	var g loretypes.Goal
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, loreerr.Wrap(loreerr.KindIntegrity, "intent.load", "parse goal yaml", err)
	}
	return &g, nil
}

func (s *Store) save(g *loretypes.Goal) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.save", "marshal goal yaml", err)
	}
	return lorepath.AtomicReplace(s.layout.GoalFile(g.ID), data, 0o644)
}

// CreateInput is the caller-supplied portion of a new goal.
type CreateInput struct {
	Name            string
	Description     string
	Priority        loretypes.GoalPriority
	SuccessCriteria []loretypes.SuccessCriterion
	DependsOn       []string
	Projects        []string
	Tags            []string
}

// Create starts a new goal: nonexistent → draft.
func (s *Store) Create(in CreateInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", loreerr.New(loreerr.KindUsage, "intent.create", "name is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = loretypes.PriorityMedium
	}
	g := &loretypes.Goal{
		ID:              loreid.NewGoalID(loreid.Now()),
		Name:            in.Name,
		Description:     in.Description,
		Status:          loretypes.GoalDraft,
		Priority:        priority,
		SuccessCriteria: in.SuccessCriteria,
		DependsOn:       in.DependsOn,
		Projects:        in.Projects,
		Tags:            in.Tags,
		Lifecycle:       loretypes.GoalLifecycle{Phase: loretypes.PhaseSpecify},
	}
	if err := s.save(g); err != nil {
		return "", err
	}
	return g.ID, nil
}

// Get returns a single goal by id.
func (s *Store) Get(id string) (*loretypes.Goal, error) {
	return s.load(id)
}

// List returns every goal, optionally filtered by status, sorted by id.
func (s *Store) List(status loretypes.GoalStatus) ([]*loretypes.Goal, error) {
	entries, err := os.ReadDir(s.layout.GoalsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "intent.list", "read goals dir", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(ids)

	var out []*loretypes.Goal
	for _, id := range ids {
		g, err := s.load(id)
		if err != nil {
			return nil, err
		}
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

var validTransitions = map[loretypes.GoalStatus]map[loretypes.GoalStatus]bool{
	loretypes.GoalDraft:     {loretypes.GoalActive: true, loretypes.GoalCancelled: true},
	loretypes.GoalActive:    {loretypes.GoalBlocked: true, loretypes.GoalCompleted: true, loretypes.GoalCancelled: true},
	loretypes.GoalBlocked:   {loretypes.GoalActive: true, loretypes.GoalCancelled: true},
}

// SetStatus transitions a goal's status, validating against the fixed
// lifecycle spec.md §4.7 names: create→active→(blocked|completed|cancelled).
func (s *Store) SetStatus(id string, status loretypes.GoalStatus) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath(id))
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.setStatus", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load(id)
	if err != nil {
		return err
	}
	if g.Status == status {
		return nil
	}
	if allowed := validTransitions[g.Status]; allowed == nil || !allowed[status] {
		return loreerr.New(loreerr.KindConflict, "intent.setStatus",
			"cannot transition goal from "+string(g.Status)+" to "+string(status))
	}
	g.Status = status
	return s.save(g)
}

// UpdateCriterion moves a single success criterion's status independently
// of the goal's own status (spec.md §4.7).
func (s *Store) UpdateCriterion(goalID, criterionID string, status loretypes.CriterionStatus) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath(goalID))
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.updateCriterion", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load(goalID)
	if err != nil {
		return err
	}
	found := false
	for i := range g.SuccessCriteria {
		if g.SuccessCriteria[i].ID == criterionID {
			g.SuccessCriteria[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return loreerr.New(loreerr.KindNotFound, "intent.updateCriterion", "criterion "+criterionID+" not found")
	}
	return s.save(g)
}

// Progress advances a goal's lifecycle phase one step along
// specify→plan→tasks→implement→complete.
func (s *Store) Progress(id string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath(id))
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.progress", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load(id)
	if err != nil {
		return err
	}
	next, ok := nextPhase[g.Lifecycle.Phase]
	if !ok {
		return loreerr.New(loreerr.KindConflict, "intent.progress", "goal "+id+" has no further phase to advance to")
	}
	g.Lifecycle.Phase = next
	return s.save(g)
}

// Assign binds a goal to a session and, when the goal is still in
// specify/plan, advances its phase to implement (spec.md §4.7). This is
// only the goal side of the binding; the engine also calls
// transfer.Store.SetSpec to write the session side, since intent has no
// dependency on transfer.
func (s *Store) Assign(goalID, sessionID string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath(goalID))
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.assign", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load(goalID)
	if err != nil {
		return err
	}
	g.Lifecycle.AssignedSession = sessionID
	g.Lifecycle.AssignedAt = loreid.Now()
	if g.Lifecycle.Phase == loretypes.PhaseSpecify || g.Lifecycle.Phase == loretypes.PhasePlan {
		g.Lifecycle.Phase = loretypes.PhaseImplement
	}
	return s.save(g)
}

// DecisionRecorder lets intent write a completion summary to the journal
// without importing the journal package.
type DecisionRecorder interface {
	Record(decision, rationale string, tags []string) (string, error)
}

// Complete stamps a goal's outcome, maps status to the goal's own status,
// and, if recorder is non-nil, writes a journal decision summarizing the
// outcome (spec.md §4.7). Clearing the completing session's spec binding
// is the engine's responsibility (via transfer.Store.SetSpec), the same
// split as Assign.
func (s *Store) Complete(id string, status loretypes.OutcomeStatus, notes string, sessionID string, recorder DecisionRecorder) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath(id))
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "intent.complete", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load(id)
	if err != nil {
		return err
	}
	g.Outcome = &loretypes.GoalOutcome{
		Status:      status,
		CompletedAt: loreid.Now(),
		SessionID:   sessionID,
	}
	switch status {
	case loretypes.GoalOutcomeCompleted:
		g.Status = loretypes.GoalCompleted
	case loretypes.GoalOutcomeAbandoned:
		g.Status = loretypes.GoalCancelled
	case loretypes.GoalOutcomeFailed:
		g.Status = loretypes.GoalBlocked
	}

	if recorder != nil {
		decisionText := "Completed goal \"" + g.Name + "\" with outcome " + string(status)
		journalID, err := recorder.Record(decisionText, notes, []string{"goal:" + g.ID, "spec-outcome"})
		if err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "intent.complete", "record outcome decision", err)
		}
		g.Outcome.JournalEntry = journalID
	}

	return s.save(g)
}
