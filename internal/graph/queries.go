package graph

import (
	"math"
	"sort"
)

// adjacency builds an undirected neighbor map with sorted, de-duplicated
// neighbor lists. Traversal treats links as bidirectional: a document is
// related to the ones that cite it as much as to the ones it cites.
func (s *Snapshot) adjacency() map[string][]string {
	sets := make(map[string]map[string]bool, len(s.Nodes))
	add := func(a, b string) {
		if a == b {
			return
		}
		if sets[a] == nil {
			sets[a] = map[string]bool{}
		}
		sets[a][b] = true
	}
	for _, e := range s.Edges {
		add(e.Source, e.Target)
		add(e.Target, e.Source)
	}

	adj := make(map[string][]string, len(sets))
	for id, set := range sets {
		neighbors := make([]string, 0, len(set))
		for n := range set {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)
		adj[id] = neighbors
	}
	return adj
}

// Reachable is one node found by BFS, annotated with its hop distance from
// the start.
type Reachable struct {
	ID       string
	Distance int
}

// BFS returns every node reachable from start within maxDepth hops, ordered
// by distance then ID. The start node itself is not part of the result.
func (s *Snapshot) BFS(start string, maxDepth int) []Reachable {
	if _, ok := s.Nodes[start]; !ok || maxDepth < 1 {
		return nil
	}
	adj := s.adjacency()

	visited := map[string]bool{start: true}
	frontier := []string{start}
	var out []Reachable

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, neighbor := range adj[id] {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				next = append(next, neighbor)
				out = append(out, Reachable{ID: neighbor, Distance: depth})
			}
		}
		sort.Strings(next)
		frontier = next
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ShortestPath returns the node sequence from one document to another over
// the undirected graph, inclusive of both ends, or nil when no path exists.
func (s *Snapshot) ShortestPath(from, to string) []string {
	if _, ok := s.Nodes[from]; !ok {
		return nil
	}
	if _, ok := s.Nodes[to]; !ok {
		return nil
	}
	if from == to {
		return []string{from}
	}

	adj := s.adjacency()
	parent := map[string]string{from: ""}
	queue := []string{from}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, neighbor := range adj[id] {
			if _, seen := parent[neighbor]; seen {
				continue
			}
			parent[neighbor] = id
			if neighbor == to {
				var path []string
				for at := to; at != ""; at = parent[at] {
					path = append(path, at)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, neighbor)
		}
	}
	return nil
}

// Hub pairs a node ID with its total degree for ranking output.
type Hub struct {
	ID     string `json:"id"`
	Degree int    `json:"degree"`
}

// Hubs returns up to limit nodes ordered by total degree descending, ties
// broken by ID.
func (s *Snapshot) Hubs(limit int) []Hub {
	hubs := make([]Hub, 0, len(s.Nodes))
	for id, n := range s.Nodes {
		if n.Degree() > 0 {
			hubs = append(hubs, Hub{ID: id, Degree: n.Degree()})
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		if hubs[i].Degree != hubs[j].Degree {
			return hubs[i].Degree > hubs[j].Degree
		}
		return hubs[i].ID < hubs[j].ID
	})
	if limit > 0 && len(hubs) > limit {
		hubs = hubs[:limit]
	}
	return hubs
}

// Orphans returns the IDs of nodes with no incoming and no outgoing edges,
// sorted. Dangling links do not count as edges.
func (s *Snapshot) Orphans() []string {
	var orphans []string
	for id, n := range s.Nodes {
		if n.Degree() == 0 {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// Centrality scores a node's connectivity on a log scale normalized to
// [0,1] against the best-connected node, read from the precomputed stats.
// Unknown nodes and edgeless graphs score 0, so the search engine can apply
// it unconditionally.
func (s *Snapshot) Centrality(id string) float64 {
	n, ok := s.Nodes[id]
	if !ok || s.Stats.MaxDegree == 0 {
		return 0
	}
	return math.Log(float64(n.Degree()+1)) / math.Log(float64(s.Stats.MaxDegree+1))
}
