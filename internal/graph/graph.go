// Package graph derives a directed multigraph from vault documents: inline
// wiki-links become untyped reference edges, frontmatter relationship
// declarations become typed edges, and unresolvable targets are kept as
// dangling-link records instead of being dropped. The snapshot also serves
// structural queries (traversal, shortest path, hubs, orphans) and the
// centrality scores the search engine uses as a ranking boost.
package graph

// KindReference is the edge kind for untyped inline wiki-links. Typed edges
// use one of the relation kinds declared in frontmatter.
const KindReference = "reference"

// Node mirrors a document, carrying the metadata needed for display and
// filtering plus its resolved edge degrees.
type Node struct {
	Title          string   `json:"title"`
	Type           string   `json:"type,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Classification string   `json:"classification"`
	In             int      `json:"in"`
	Out            int      `json:"out"`
}

// Degree is the node's total connectivity: incoming plus outgoing edges.
func (n *Node) Degree() int { return n.In + n.Out }

// Edge is one resolved directed connection between two documents.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// DanglingLink records a reference whose target no document resolves to.
// Dangling links contribute to no degree and are surfaced in build stats.
type DanglingLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// Stats are the precomputed structural counts persisted with the snapshot.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	TypedEdges int `json:"typed_edges"`
	Dangling   int `json:"dangling"`
	Orphans    int `json:"orphans"`
	MaxDegree  int `json:"max_degree"`
}

// Snapshot is the persisted graph artifact.
type Snapshot struct {
	Nodes    map[string]*Node `json:"nodes"`
	Edges    []Edge           `json:"edges"`
	Dangling []DanglingLink   `json:"dangling"`
	Stats    Stats            `json:"stats"`
}
