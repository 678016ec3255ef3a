// Package engine wires every store-level component into one process:
// it is the only package that imports journal, pattern, failure, graph,
// inbox, transfer, intent, searchindex, retrieval, outcome, and briefing
// together, translating between their structural interfaces so the
// components themselves stay decoupled (spec.md §2 "components are
// independently testable").
package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/lore-dev/lore/internal/briefing"
	"github.com/lore-dev/lore/internal/embed"
	"github.com/lore-dev/lore/internal/failure"
	"github.com/lore-dev/lore/internal/graph"
	"github.com/lore-dev/lore/internal/inbox"
	"github.com/lore-dev/lore/internal/intent"
	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loreconfig"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/outcome"
	"github.com/lore-dev/lore/internal/pattern"
	"github.com/lore-dev/lore/internal/retrieval"
	"github.com/lore-dev/lore/internal/searchindex"
	"github.com/lore-dev/lore/internal/transfer"
)

// Engine bundles every component store over one on-disk data root.
type Engine struct {
	Layout *lorepath.Layout
	Config loreconfig.Config
	Log    *slog.Logger

	Journal   *journal.Store
	Pattern   *pattern.Store
	Failure   *failure.Store
	Graph     *graph.Store
	Inbox     *inbox.Store
	Transfer  *transfer.Store
	Intent    *intent.Store
	Outcome   *outcome.Store
	Briefing  *briefing.Store
	Search    *searchindex.Store
	Retrieval *retrieval.Engine

	provider     embed.Provider
	rebuildGroup singleflight.Group
}

// Open constructs every component rooted at dataRoot, wired together per
// spec.md §2-§5, and opens (creating if absent) the search index
// database. Callers must call Close when done.
func Open(dataRoot string, cfg loreconfig.Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	layout := lorepath.New(dataRoot)
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	searchIdx, err := searchindex.Open(layout.SearchDBFile())
	if err != nil {
		return nil, err
	}

	var provider embed.Provider = embed.NullProvider{}
	if cfg.Embedding.Endpoint != "" {
		p := embed.NewHTTPProvider(cfg.Embedding.Endpoint, cfg.Embedding.APIKey, cfg.Embedding.Dimensions)
		provider = p
	}

	// journal and graph each need the other at construction (graph's
	// supersedes edge calls back into the journal; the journal mirrors
	// every new decision into the graph). Break the cycle by building
	// the journal first and wiring its graph notifier in after the
	// graph store exists; journal.GraphNotifier and graph.DecisionUpdater
	// already match journal.Store/graph.Store's real method shapes, so
	// no adapter type is needed on either side.
	j := journal.New(layout, journal.WithSearchNotifier(searchIdx))
	g := graph.New(layout, graph.WithSearchNotifier(searchIdx), graph.WithDecisionUpdater(j),
		graph.WithContradictionSink(func(msg string) { log.Warn(msg) }))
	j.SetGraphNotifier(g)

	p := pattern.New(layout)
	f := failure.New(layout)
	ib := inbox.New(layout)
	tr := transfer.New(layout, transfer.WithGitInspector(shellGitInspector{}))
	it := intent.New(layout)
	oc := outcome.New(j, p, f)
	br := briefing.New(j, p, f, g)

	e := &Engine{
		Layout: layout, Config: cfg, Log: log,
		Journal: j, Pattern: p, Failure: f, Graph: g, Inbox: ib, Transfer: tr,
		Intent: it, Outcome: oc, Briefing: br, Search: searchIdx, provider: provider,
	}
	e.Retrieval = retrieval.New(searchIdx, retrieval.WithProvider(provider), retrieval.WithRebuilder(e))
	return e, nil
}

// Close releases the search index's database handle.
func (e *Engine) Close() error {
	return e.Search.Close()
}

// Rebuild implements retrieval.Rebuilder: it gathers every component's
// current records and performs a full, idempotent search index rebuild
// (spec.md §4.8, §5 "build is idempotent and safe to interrupt").
// Concurrent callers collapse onto a single in-flight rebuild via
// singleflight, so a burst of stale-index triggers only rebuilds once.
func (e *Engine) Rebuild(ctx context.Context) error {
	_, err, _ := e.rebuildGroup.Do("rebuild", func() (any, error) {
		decisions, err := e.Journal.List(journal.Filters{})
		if err != nil {
			return nil, err
		}
		patterns, err := e.Pattern.List("")
		if err != nil {
			return nil, err
		}
		antiPatterns, err := e.Pattern.ListAntiPatterns("")
		if err != nil {
			return nil, err
		}
		sessions, err := e.Transfer.List()
		if err != nil {
			return nil, err
		}
		g, err := e.Graph.Export()
		if err != nil {
			return nil, err
		}

		if err := e.Search.Build(ctx, searchindex.BuildInput{
			Decisions:    decisions,
			Patterns:     patterns,
			AntiPatterns: antiPatterns,
			Sessions:     sessions,
			Graph:        g,
			Provider:     e.provider,
		}); err != nil {
			return nil, err
		}
		e.Search.ClearDirty()
		return nil, nil
	})
	return err
}

// SyncGraph mirrors every active decision into the graph as a
// decision-* node (spec.md §4.5 "sync"), idempotent and safe to re-run.
func (e *Engine) SyncGraph() (int, error) {
	decisions, err := e.Journal.List(journal.Filters{})
	if err != nil {
		return 0, err
	}
	sync := make([]graph.SyncDecision, 0, len(decisions))
	for _, d := range decisions {
		if d.Status != loretypes.StatusActive {
			continue
		}
		sync = append(sync, graph.SyncDecision{ID: d.ID, Text: d.Decision})
	}
	return e.Graph.Sync(sync)
}

// decisionRecorder adapts journal.Store.Record to intent.DecisionRecorder's
// narrower signature, used by goal completion and spec-import plan-decision
// recording.
type decisionRecorder struct {
	journal *journal.Store
}

func (r decisionRecorder) Record(decision, rationale string, tags []string) (string, error) {
	id, _, err := r.journal.Record(journal.RecordInput{Decision: decision, Rationale: rationale, Tags: tags, Force: true})
	return id, err
}

// DecisionRecorder returns an intent.DecisionRecorder backed by this
// engine's journal, for goal completion and spec-import.
func (e *Engine) DecisionRecorder() intent.DecisionRecorder {
	return decisionRecorder{journal: e.Journal}
}

// AssignGoal binds a goal to a session on both sides (spec.md §4.7
// "assign(goal, session) records the binding on both sides"): the goal's
// own lifecycle.assigned_session via intent.Store.Assign, and the
// session's context.spec via transfer.Store.SetSpec. Neither component
// imports the other, so the engine is where both writes happen together.
func (e *Engine) AssignGoal(goalID, sessionID string) error {
	if err := e.Intent.Assign(goalID, sessionID); err != nil {
		return err
	}
	return e.Transfer.SetSpec(sessionID, goalID)
}

// CompleteGoal completes a goal via intent.Store.Complete and, when
// sessionID is non-empty, clears that session's spec binding (spec.md §4.7
// "Completion... clears the session's spec binding").
func (e *Engine) CompleteGoal(id string, status loretypes.OutcomeStatus, notes, sessionID string) error {
	if err := e.Intent.Complete(id, status, notes, sessionID, e.DecisionRecorder()); err != nil {
		return err
	}
	if sessionID != "" {
		return e.Transfer.SetSpec(sessionID, "")
	}
	return nil
}
