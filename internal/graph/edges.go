package graph

import (
	"fmt"
	"time"

	"github.com/lore-dev/lore/internal/lockfile"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/loreid"
	"github.com/lore-dev/lore/internal/loretypes"
)

// AddEdge validates both endpoints exist and the relation is in the
// fixed vocabulary, then upserts by (from,to,relation): an existing edge
// has its weight updated, otherwise a new active edge is inserted. When
// bidirectional, the reverse edge is upserted too. Side-effects:
// supersedes mutates the target decision (spec.md §3 "Edge
// side-effects"); contradicts emits a warning via the registered sink.
func (s *Store) AddEdge(from, to string, relation loretypes.EdgeRelation, weight float64, bidirectional bool) error {
	if !loretypes.ValidRelations[relation] {
		return loreerr.New(loreerr.KindUsage, "graph.addEdge", "unknown relation: "+string(relation))
	}

	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := g.Nodes[from]; !ok {
		return loreerr.New(loreerr.KindUsage, "graph.addEdge", "endpoint not found: "+from)
	}
	if _, ok := g.Nodes[to]; !ok {
		return loreerr.New(loreerr.KindUsage, "graph.addEdge", "endpoint not found: "+to)
	}

	now := loreid.Now()
	upsertEdge(g, from, to, relation, weight, bidirectional, now)
	if bidirectional {
		upsertEdge(g, to, from, relation, weight, bidirectional, now)
	}

	if relation == loretypes.RelSupersedes && s.journal != nil {
		target, by := to, from
		if id, ok := g.Nodes[to].Data["journal_id"].(string); ok && id != "" {
			target = id
		}
		if id, ok := g.Nodes[from].Data["journal_id"].(string); ok && id != "" {
			by = id
		}
		if err := s.journal.MarkSuperseded(target, by); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "graph.addEdge", "mark decision superseded", err)
		}
	}
	if relation == loretypes.RelContradicts && s.onContradiction != nil {
		s.onContradiction(fmt.Sprintf("contradiction warning: %s contradicts %s", from, to))
	}

	return s.save(g)
}

func upsertEdge(g *loretypes.Graph, from, to string, relation loretypes.EdgeRelation, weight float64, bidirectional bool, now time.Time) {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Relation == relation {
			e.Weight = weight
			e.Bidirectional = bidirectional
			e.Status = loretypes.EdgeActive
			e.UpdatedAt = now
			return
		}
	}
	g.Edges = append(g.Edges, &loretypes.GraphEdge{
		From: from, To: to, Relation: relation, Weight: weight,
		Bidirectional: bidirectional, Status: loretypes.EdgeActive,
		CreatedAt: now, UpdatedAt: now,
	})
}

// DeleteEdge hard-removes edges matching (from,to) and, if relation is
// non-empty, also matching relation.
func (s *Store) DeleteEdge(from, to string, relation loretypes.EdgeRelation) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load()
	if err != nil {
		return err
	}
	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.From == from && e.To == to && (relation == "" || e.Relation == relation) {
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return s.save(g)
}

// DeprecateEdge soft-deletes edges matching (from,to) and, if relation is
// non-empty, also matching relation, by setting status=deprecated. Query
// operations ignore deprecated edges.
func (s *Store) DeprecateEdge(from, to string, relation loretypes.EdgeRelation) error {
	lock, err := lockfile.AcquireExclusive(s.lockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	g, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for _, e := range g.Edges {
		if e.From == from && e.To == to && (relation == "" || e.Relation == relation) {
			e.Status = loretypes.EdgeDeprecated
			e.UpdatedAt = loreid.Now()
			found = true
		}
	}
	if !found {
		return loreerr.New(loreerr.KindNotFound, "graph.deprecateEdge", "edge not found")
	}
	return s.save(g)
}

func activeEdges(g *loretypes.Graph) []*loretypes.GraphEdge {
	var out []*loretypes.GraphEdge
	for _, e := range g.Edges {
		if e.Status == loretypes.EdgeActive {
			out = append(out, e)
		}
	}
	return out
}
