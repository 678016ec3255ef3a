package searchindex

import (
	"context"
	"sort"
	"strings"

	"github.com/lore-dev/lore/internal/loreerr"
)

// edgeRelevance is the fixed edge-type relevance table spec.md §4.8
// names for graph-expanded scoring, each in [0.4,1.0].
var edgeRelevance = map[string]float64{
	"relates_to":    0.6,
	"learned_from":  0.7,
	"affects":       0.6,
	"supersedes":    0.5,
	"contradicts":   0.4,
	"contains":      0.7,
	"references":    0.6,
	"implements":    0.8,
	"depends_on":    0.7,
	"produces":      0.6,
	"consumes":      0.6,
	"derived_from":  0.7,
	"part_of":       0.7,
	"summarized_by": 0.6,
	"yields":        0.6,
	"informs":       0.6,
	"grounds":       0.8,
	"hosts":         0.5,
}

const maxGraphDepth = 3

// GraphExpanded unions the initial ranked set with nodes whose name
// matches query, BFS-expands over graph_edges up to depth hops (capped
// at 3, optionally restricted to an edge-type allowlist), scores expanded
// nodes as edge_weight·0.7^hop, and merges, keeping the initial set's
// direct-match scores (spec.md §4.8 "Query — graph-expanded").
func (s *Store) GraphExpanded(ctx context.Context, query string, depth int, edgeAllowlist []string, initial []Result) ([]Result, error) {
	if depth <= 0 || depth > maxGraphDepth {
		depth = maxGraphDepth
	}
	allowed := map[string]bool{}
	for _, r := range edgeAllowlist {
		allowed[r] = true
	}

	startIDs, err := s.matchingNodeIDs(ctx, query)
	if err != nil {
		return nil, err
	}
	adjacency, err := s.loadEdgeAdjacency(ctx, allowed)
	if err != nil {
		return nil, err
	}

	visited := map[string]nodeHop{}
	queue := make([]string, 0, len(startIDs))
	for _, id := range startIDs {
		if _, ok := visited[id]; !ok {
			visited[id] = nodeHop{relation: "start", depth: 0}
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curHop := visited[cur]
		if curHop.depth >= depth {
			continue
		}
		for _, e := range adjacency[cur] {
			if _, seen := visited[e.to]; seen {
				continue
			}
			visited[e.to] = nodeHop{relation: e.relation, depth: curHop.depth + 1}
			queue = append(queue, e.to)
		}
	}

	names, err := s.nodeNames(ctx, visited)
	if err != nil {
		return nil, err
	}

	merged := map[string]Result{}
	for id, h := range visited {
		weight := 1.0
		if h.relation != "start" {
			weight = edgeRelevance[h.relation]
			if weight == 0 {
				weight = 0.4
			}
		}
		score := weight
		for i := 0; i < h.depth; i++ {
			score *= 0.7
		}
		merged["graph_node:"+id] = Result{Type: "graph_node", ID: id, Content: names[id], Score: score}
	}
	// Direct-match scores from the initial ranked set win over graph-derived scores.
	for _, r := range initial {
		merged[r.Type+":"+r.ID] = r
	}

	out := make([]Result, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (s *Store) matchingNodeIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM graph_nodes WHERE lower(name) LIKE ?`, "%"+strings.ToLower(query)+"%")
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.matchingNodeIDs", "query graph_nodes", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.matchingNodeIDs", "scan row", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type graphAdjEdge struct {
	to       string
	relation string
}

// nodeHop records how a BFS-discovered node was first reached.
type nodeHop struct {
	relation string
	depth    int
}

func (s *Store) loadEdgeAdjacency(ctx context.Context, allowed map[string]bool) (map[string][]graphAdjEdge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT from_id, to_id, relation FROM graph_edges`)
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.loadEdgeAdjacency", "query graph_edges", err)
	}
	defer func() { _ = rows.Close() }()

	adj := map[string][]graphAdjEdge{}
	for rows.Next() {
		var from, to, relation string
		if err := rows.Scan(&from, &to, &relation); err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.loadEdgeAdjacency", "scan row", err)
		}
		if len(allowed) > 0 && !allowed[relation] {
			continue
		}
		adj[from] = append(adj[from], graphAdjEdge{to: to, relation: relation})
	}
	return adj, rows.Err()
}

func (s *Store) nodeNames(ctx context.Context, ids map[string]nodeHop) (map[string]string, error) {
	names := map[string]string{}
	for id := range ids {
		var name string
		err := s.db.QueryRowContext(ctx, `SELECT name FROM graph_nodes WHERE id = ?`, id).Scan(&name)
		if err != nil {
			continue
		}
		names[id] = name
	}
	return names, nil
}
