package graph

import (
	"sort"
	"strings"

	"github.com/seralba/notedex/internal/vault"
)

// typePrefixes are the filename conventions tried when a bare link target
// does not directly match a stem or title: a link [[CAP Theorem]] resolves
// to a document named "Concept - CAP Theorem".
var typePrefixes = []string{
	"Person - ", "System - ", "Concept - ", "Note - ",
	"Decision - ", "Meeting - ", "Task - ", "Project - ",
	"Resource - ", "Interaction - ", "ActionItem - ",
	"Daily - ", "Weblink - ",
}

// resolver maps link targets to document IDs. When several documents share
// a stem or title, the lexicographically smallest ID wins, so resolution is
// deterministic across rebuilds.
type resolver struct {
	byStem  map[string]string
	byTitle map[string]string
}

func newResolver(docs []vault.Document) *resolver {
	r := &resolver{
		byStem:  make(map[string]string, len(docs)),
		byTitle: make(map[string]string, len(docs)),
	}
	for _, doc := range docs {
		claim(r.byStem, doc.Stem(), doc.ID)
		claim(r.byTitle, doc.Title, doc.ID)
	}
	return r
}

func claim(m map[string]string, key, id string) {
	if key == "" {
		return
	}
	if existing, ok := m[key]; !ok || id < existing {
		m[key] = id
	}
}

// resolve returns the document ID for a link target, or "" when the target
// is dangling. Lookup order: exact stem, exact title, then stems with each
// known type prefix.
func (r *resolver) resolve(target string) string {
	target = strings.TrimSpace(target)
	if id, ok := r.byStem[target]; ok {
		return id
	}
	if id, ok := r.byTitle[target]; ok {
		return id
	}
	for _, prefix := range typePrefixes {
		if id, ok := r.byStem[prefix+target]; ok {
			return id
		}
	}
	return ""
}

// Build constructs a complete snapshot from docs. Unlike the text indexes,
// the graph is always rebuilt whole: every edge depends on cross-document
// resolution, so there is no per-document incremental form.
func Build(docs []vault.Document) *Snapshot {
	snap := &Snapshot{
		Nodes:    make(map[string]*Node, len(docs)),
		Edges:    []Edge{},
		Dangling: []DanglingLink{},
	}
	res := newResolver(docs)

	for _, doc := range docs {
		snap.Nodes[doc.ID] = &Node{
			Title:          doc.Title,
			Type:           doc.Type,
			Tags:           doc.Tags,
			Classification: string(doc.Classification),
		}
	}

	for _, doc := range docs {
		for _, target := range vault.ExtractLinks(doc.Body) {
			snap.addEdge(res, doc.ID, target, KindReference)
		}

		kinds := make([]string, 0, len(doc.Relationships))
		for kind := range doc.Relationships {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			for _, target := range doc.Relationships[kind] {
				snap.addEdge(res, doc.ID, target, kind)
			}
		}
	}

	sort.Slice(snap.Edges, func(i, j int) bool { return lessEdge(snap.Edges[i], snap.Edges[j]) })
	sort.Slice(snap.Dangling, func(i, j int) bool {
		a, b := snap.Dangling[i], snap.Dangling[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})

	for _, e := range snap.Edges {
		snap.Nodes[e.Source].Out++
		snap.Nodes[e.Target].In++
	}

	snap.Stats = snap.computeStats()
	return snap
}

func (s *Snapshot) addEdge(res *resolver, source, target, kind string) {
	resolved := res.resolve(target)
	if resolved == "" {
		s.Dangling = append(s.Dangling, DanglingLink{Source: source, Target: strings.TrimSpace(target), Kind: kind})
		return
	}
	s.Edges = append(s.Edges, Edge{Source: source, Target: resolved, Kind: kind})
}

func lessEdge(a, b Edge) bool {
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	if a.Target != b.Target {
		return a.Target < b.Target
	}
	return a.Kind < b.Kind
}

func (s *Snapshot) computeStats() Stats {
	stats := Stats{
		Nodes:    len(s.Nodes),
		Edges:    len(s.Edges),
		Dangling: len(s.Dangling),
	}
	for _, e := range s.Edges {
		if e.Kind != KindReference {
			stats.TypedEdges++
		}
	}
	for _, n := range s.Nodes {
		if n.Degree() == 0 {
			stats.Orphans++
		}
		if n.Degree() > stats.MaxDegree {
			stats.MaxDegree = n.Degree()
		}
	}
	return stats
}
