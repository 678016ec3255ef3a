// Package graph implements the typed knowledge graph (spec.md §4.5):
// deterministic-id nodes with deep-merge, typed directed edges with soft
// deletion, and BFS/DFS/shortest-path/cluster/hub queries.
package graph

import (
	"encoding/json"
	"os"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/lorepath"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// DecisionUpdater lets a supersedes edge mutate the target decision's
// status without the graph package importing the journal package.
type DecisionUpdater interface {
	MarkSuperseded(decisionID, supersededByDecisionID string) error
}

// SearchNotifier lets the graph mark the search index dirty on writes.
type SearchNotifier interface {
	MarkDirty()
}

// Store is the graph component.
type Store struct {
	layout *lorepath.Layout
	journal DecisionUpdater
	search  SearchNotifier

	// onContradiction receives a human-readable warning whenever a
	// contradicts edge is added, never blocking the write.
	onContradiction func(message string)
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithDecisionUpdater wires the journal so supersedes edges can mutate
// the superseded decision.
func WithDecisionUpdater(j DecisionUpdater) Option {
	return func(s *Store) { s.journal = j }
}

// WithSearchNotifier wires a search index to be marked dirty on writes.
func WithSearchNotifier(n SearchNotifier) Option {
	return func(s *Store) { s.search = n }
}

// WithContradictionSink registers a callback invoked with a warning
// message whenever a contradicts edge is inserted.
func WithContradictionSink(fn func(string)) Option {
	return func(s *Store) { s.onContradiction = fn }
}

// New constructs a graph Store rooted at layout.
func New(layout *lorepath.Layout, opts ...Option) *Store {
	s := &Store{layout: layout}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) lockPath() string { return s.layout.GraphFile() + ".lock" }

func (s *Store) load() (*loretypes.Graph, error) {
	data, err := os.ReadFile(s.layout.GraphFile())
	if err != nil {
		if os.IsNotExist(err) {
			return &loretypes.Graph{Nodes: map[string]*loretypes.GraphNode{}}, nil
		}
		return nil, loreerr.Wrap(loreerr.KindFatal, "graph.load", "read graph file", err)
	}
	var g loretypes.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, loreerr.Wrap(loreerr.KindIntegrity, "graph.load", "parse graph json", err)
	}
	if g.Nodes == nil {
		g.Nodes = map[string]*loretypes.GraphNode{}
	}
	return &g, nil
}

func (s *Store) save(g *loretypes.Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "graph.save", "marshal graph json", err)
	}
	if err := lorepath.AtomicReplace(s.layout.GraphFile(), data, 0o644); err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "graph.save", "replace graph file", err)
	}
	if s.search != nil {
		s.search.MarkDirty()
	}
	return nil
}

// AddNode inserts a node, or merges data into an existing node with the
// same deterministic (type, name) key (spec.md §3 "re-adding merges data
// via deep-merge and updates updated_at"). Returns the node's id.
func (s *Store) AddNode(nodeType loretypes.NodeType, name string, data map[string]any) (string, error) {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return "", loreerr.Wrap(loreerr.KindFatal, "graph.addNode", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load()
	if err != nil {
		return "", err
	}
	id := loreid.GraphNodeID(string(nodeType), name)
	now := loreid.Now()

	if existing, ok := g.Nodes[id]; ok {
		existing.Data = deepMerge(existing.Data, data)
		existing.UpdatedAt = now
	} else {
		g.Nodes[id] = &loretypes.GraphNode{
			ID: id, Type: nodeType, Name: name, Data: data,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	if err := s.save(g); err != nil {
		return "", err
	}
	return id, nil
}

// NotifyDecision satisfies journal.GraphNotifier: it mirrors a decision
// as a "decision-<md5(text)>" node carrying journal_id (spec.md §4.2).
func (s *Store) NotifyDecision(decisionID, text string) error {
	_, err := s.AddNode(loretypes.NodeDecision, text, map[string]any{"journal_id": decisionID})
	return err
}

// deepMerge merges src into dst, recursing into nested maps and letting
// src win on scalar conflicts. Neither input is mutated; a fresh map is
// returned.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if existing, ok := out[k]; ok {
			existingMap, eok := existing.(map[string]any)
			valueMap, vok := v.(map[string]any)
			if eok && vok {
				out[k] = deepMerge(existingMap, valueMap)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Export returns the full graph document, used by the search index to
// mirror nodes and edges for graph-expanded queries (spec.md §4.8).
func (s *Store) Export() (*loretypes.Graph, error) {
	return s.load()
}

// GetNode returns a node by id.
func (s *Store) GetNode(id string) (*loretypes.GraphNode, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	n, ok := g.Nodes[id]
	if !ok {
		return nil, loreerr.New(loreerr.KindNotFound, "graph.getNode", "node "+id+" not found")
	}
	return n, nil
}

// FindByName returns nodes matching name exactly, regardless of type.
func (s *Store) FindByName(name string) ([]*loretypes.GraphNode, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*loretypes.GraphNode
	for _, n := range g.Nodes {
		if n.Name == name {
			out = append(out, n)
		}
	}
	return out, nil
}

// ListByType returns every node of the given type.
func (s *Store) ListByType(nodeType loretypes.NodeType) ([]*loretypes.GraphNode, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*loretypes.GraphNode
	for _, n := range g.Nodes {
		if n.Type == nodeType {
			out = append(out, n)
		}
	}
	return out, nil
}

// DeleteNode removes a node and every edge incident to it.
func (s *Store) DeleteNode(id string) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return loreerr.Wrap(loreerr.KindFatal, "graph.deleteNode", "acquire lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := g.Nodes[id]; !ok {
		return loreerr.New(loreerr.KindNotFound, "graph.deleteNode", "node "+id+" not found")
	}
	delete(g.Nodes, id)
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.From != id && e.To != id {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return s.save(g)
}
