package graph

import (
	"sort"
	"strings"

	"github.com/lore-dev/lore/internal/loretypes"
)

// Outgoing returns active edges leaving node.
func (s *Store) Outgoing(node string) ([]*loretypes.GraphEdge, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*loretypes.GraphEdge
	for _, e := range activeEdges(g) {
		if e.From == node {
			out = append(out, e)
		}
	}
	return out, nil
}

// Incoming returns active edges arriving at node.
func (s *Store) Incoming(node string) ([]*loretypes.GraphEdge, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*loretypes.GraphEdge
	for _, e := range activeEdges(g) {
		if e.To == node {
			out = append(out, e)
		}
	}
	return out, nil
}

// Neighbors returns the unique union of nodes reachable via one active
// edge in either direction.
func (s *Store) Neighbors(node string) ([]string, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, e := range activeEdges(g) {
		if e.From == node {
			seen[e.To] = struct{}{}
		}
		if e.To == node {
			seen[e.From] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// undirectedAdjacency builds an undirected neighbor map over active edges.
func undirectedAdjacency(g *loretypes.Graph) map[string][]string {
	adj := map[string][]string{}
	for _, e := range activeEdges(g) {
		adj[e.From] = append(adj[e.From], e.To)
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// directedAdjacency builds a from→to neighbor map over active edges.
func directedAdjacency(g *loretypes.Graph) map[string][]string {
	adj := map[string][]string{}
	for _, e := range activeEdges(g) {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// Hop pairs a reached node with its distance from the BFS/DFS start.
type Hop struct {
	NodeID string
	Depth  int
}

// BFS walks active out-edges from start up to maxDepth hops, breadth-first.
func (s *Store) BFS(start string, maxDepth int) ([]Hop, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	adj := directedAdjacency(g)
	visited := map[string]bool{start: true}
	queue := []Hop{{NodeID: start, Depth: 0}}
	var out []Hop
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		if cur.Depth >= maxDepth {
			continue
		}
		for _, n := range adj[cur.NodeID] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, Hop{NodeID: n, Depth: cur.Depth + 1})
			}
		}
	}
	return out, nil
}

// DFS walks active out-edges from start up to maxDepth hops, depth-first.
func (s *Store) DFS(start string, maxDepth int) ([]Hop, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	adj := directedAdjacency(g)
	visited := map[string]bool{}
	var out []Hop
	var walk func(node string, depth int)
	walk = func(node string, depth int) {
		if visited[node] {
			return
		}
		visited[node] = true
		out = append(out, Hop{NodeID: node, Depth: depth})
		if depth >= maxDepth {
			return
		}
		for _, n := range adj[node] {
			walk(n, depth+1)
		}
	}
	walk(start, 0)
	return out, nil
}

// ShortestPath returns the sequence of node ids from from to to via
// active out-edges (BFS), or nil if no path exists.
func (s *Store) ShortestPath(from, to string) ([]string, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	adj := directedAdjacency(g)
	if from == to {
		return []string{from}, nil
	}
	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return reconstructPath(prev, to), nil
		}
		for _, n := range adj[cur] {
			if _, seen := prev[n]; !seen {
				prev[n] = cur
				queue = append(queue, n)
			}
		}
	}
	return nil, nil
}

func reconstructPath(prev map[string]string, to string) []string {
	var path []string
	for cur := to; ; {
		path = append([]string{cur}, path...)
		p, ok := prev[cur]
		if !ok || p == "" {
			break
		}
		cur = p
	}
	return path
}

// RelatedHop is a node reached within a radius, tagged with the relation
// that carried it (from the edge traversed to discover it first).
type RelatedHop struct {
	NodeID   string
	Hops     int
	Relation loretypes.EdgeRelation
}

// Related returns every node within maxHops of node, tagged with the hop
// count and the edge relation that first reached it.
func (s *Store) Related(node string, maxHops int) ([]RelatedHop, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	type edgeHop struct {
		to       string
		relation loretypes.EdgeRelation
	}
	adj := map[string][]edgeHop{}
	for _, e := range activeEdges(g) {
		adj[e.From] = append(adj[e.From], edgeHop{to: e.To, relation: e.Relation})
		if e.Bidirectional {
			adj[e.To] = append(adj[e.To], edgeHop{to: e.From, relation: e.Relation})
		}
	}

	visited := map[string]bool{node: true}
	type queued struct {
		id       string
		hops     int
		relation loretypes.EdgeRelation
	}
	queue := []queued{{id: node, hops: 0}}
	var out []RelatedHop
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.hops > 0 {
			out = append(out, RelatedHop{NodeID: cur.id, Hops: cur.hops, Relation: cur.relation})
		}
		if cur.hops >= maxHops {
			continue
		}
		for _, eh := range adj[cur.id] {
			if !visited[eh.to] {
				visited[eh.to] = true
				queue = append(queue, queued{id: eh.to, hops: cur.hops + 1, relation: eh.relation})
			}
		}
	}
	return out, nil
}

// Clusters returns the connected components of the undirected skeleton
// of active edges, each as a sorted slice of node ids.
func (s *Store) Clusters() ([][]string, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	adj := undirectedAdjacency(g)
	visited := map[string]bool{}
	var clusters [][]string
	nodeIDs := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	for _, id := range nodeIDs {
		if visited[id] {
			continue
		}
		var component []string
		queue := []string{id}
		visited[id] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			for _, n := range adj[cur] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Strings(component)
		clusters = append(clusters, component)
	}
	return clusters, nil
}

// Orphans returns nodes with no incident active edge.
func (s *Store) Orphans() ([]string, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	incident := map[string]bool{}
	for _, e := range activeEdges(g) {
		incident[e.From] = true
		incident[e.To] = true
	}
	var out []string
	for id := range g.Nodes {
		if !incident[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

// HubScore is a node ranked by total active-edge degree.
type HubScore struct {
	NodeID string
	Degree int
}

// Hubs returns the top `limit` nodes by total (in+out) active-edge degree.
func (s *Store) Hubs(limit int) ([]HubScore, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	degree := map[string]int{}
	for _, e := range activeEdges(g) {
		degree[e.From]++
		degree[e.To]++
	}
	scores := make([]HubScore, 0, len(degree))
	for id, d := range degree {
		scores = append(scores, HubScore{NodeID: id, Degree: d})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Degree != scores[j].Degree {
			return scores[i].Degree > scores[j].Degree
		}
		return scores[i].NodeID < scores[j].NodeID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// SearchFilters narrows a node search.
type SearchFilters struct {
	Type loretypes.NodeType
}

// SearchResult is a ranked node match.
type SearchResult struct {
	Node  *loretypes.GraphNode
	Score float64
}

// Search matches query against node names as substrings, falling back to
// fuzzy (Levenshtein ≤2) word matching, and scores by
// exact/prefix/contains/occurrence strength (spec.md §4.5). Node data is
// not searched.
func (s *Store) Search(query string, f SearchFilters) ([]SearchResult, error) {
	g, err := s.load()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var results []SearchResult
	for _, n := range g.Nodes {
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		score := scoreNodeMatch(n, q)
		if score > 0 {
			results = append(results, SearchResult{Node: n, Score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.ID < results[j].Node.ID
	})
	return results, nil
}

func scoreNodeMatch(n *loretypes.GraphNode, q string) float64 {
	name := strings.ToLower(n.Name)
	switch {
	case name == q:
		return 4.0
	case strings.HasPrefix(name, q):
		return 3.0
	case strings.Contains(name, q):
		return 2.0 + 0.1*float64(strings.Count(name, q))
	}
	for _, word := range strings.Fields(name) {
		if levenshtein(word, q) <= 2 {
			return 1.0
		}
	}
	return 0
}

// levenshtein computes edit distance between a and b.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	m, n := len(ar), len(br)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			cur[j] = minInt(prev[j]+1, minInt(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[n]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
