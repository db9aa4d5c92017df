// Package search fuses the three retrieval signals (BM25 full-text rank,
// vector similarity, and graph centrality) into one explainable ranking.
// The engine runs fixed stages over whatever signals are present and never
// fails a query because an optional signal is missing.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/seralba/notedex/internal/embedding"
	"github.com/seralba/notedex/internal/fulltext"
	"github.com/seralba/notedex/internal/graph"
	"github.com/seralba/notedex/internal/vault"
)

// Engine modes, reported with every result set. GRAPH_BOOSTED subsumes the
// other two: it means centrality is actively shaping scores on top of
// whichever text signals ran.
const (
	ModeFTSOnly      = "FTS_ONLY"
	ModeHybrid       = "HYBRID"
	ModeGraphBoosted = "GRAPH_BOOSTED"
)

// DefaultLimit is the result count when the query does not set one.
const DefaultLimit = 10

// Options are the ranking knobs. Zero values are honored as given, so
// callers normally start from DefaultOptions and override.
type Options struct {
	FTSWeight     float64
	VectorWeight  float64
	BoostFactor   float64
	Params        fulltext.Params
	SnippetLength int
}

// DefaultOptions returns the documented default weighting: 70/30 text
// fusion with a small centrality boost.
func DefaultOptions() Options {
	return Options{
		FTSWeight:     0.7,
		VectorWeight:  0.3,
		BoostFactor:   0.1,
		Params:        fulltext.DefaultParams,
		SnippetLength: 200,
	}
}

// Engine executes queries against loaded artifact snapshots. All fields are
// read-only after construction, so one engine serves concurrent queries.
// Any of vectors, backend, and snap may be nil; the engine degrades to the
// signals it has.
type Engine struct {
	index   *fulltext.Index
	vectors *embedding.Store
	backend embedding.Embedder
	snap    *graph.Snapshot
	opts    Options
}

// NewEngine wires an engine over the given snapshots. index is required.
func NewEngine(index *fulltext.Index, vectors *embedding.Store, backend embedding.Embedder, snap *graph.Snapshot, opts Options) *Engine {
	return &Engine{
		index:   index,
		vectors: vectors,
		backend: backend,
		snap:    snap,
		opts:    opts,
	}
}

// Query is one search invocation. Type and Tag filter case-insensitively;
// Limit falls back to DefaultLimit when unset.
type Query struct {
	Text  string
	Type  string
	Tag   string
	Limit int
}

// Result is one ranked document with its component scores kept for
// explain output: BM25 is the max-normalized text score, Vector the clamped
// cosine similarity, and Boost the centrality term b such that the final
// score is fused * (1 + b).
type Result struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Type    string  `json:"type,omitempty"`
	Score   float64 `json:"score"`
	BM25    float64 `json:"bm25"`
	Vector  float64 `json:"vector"`
	Boost   float64 `json:"boost"`
	Snippet string  `json:"snippet,omitempty"`
}

// Info describes how a query was executed: which mode the engine ran in
// and any signals it had to skip, with the reason.
type Info struct {
	Mode  string   `json:"mode"`
	Notes []string `json:"notes,omitempty"`
}

func (i *Info) note(format string, args ...any) {
	i.Notes = append(i.Notes, fmt.Sprintf(format, args...))
}

// Search runs the staged pipeline: BM25, optional vector similarity,
// fusion, centrality boost, classification check, and ranking. It never
// returns an error; signal failures degrade the mode and are reported in
// Info.
func (e *Engine) Search(ctx context.Context, q Query) ([]Result, Info) {
	info := Info{Mode: ModeFTSOnly}
	if strings.TrimSpace(q.Text) == "" {
		info.note("empty query")
		return nil, info
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	fq := fulltext.Query{Text: q.Text, Type: q.Type, Tag: q.Tag}

	// Stage 1: BM25, normalized against the top hit so scores land in [0,1].
	hits := e.index.Search(fq, e.opts.Params)
	bm25 := make(map[string]float64, len(hits))
	if len(hits) > 0 && hits[0].Score > 0 {
		top := hits[0].Score
		for _, h := range hits {
			bm25[h.ID] = h.Score / top
		}
	}

	// Stage 2: vector similarity. nil means the stage did not run and must
	// contribute nothing to fusion; an empty map means it ran and every
	// stored vector was filtered out.
	vector := e.vectorStage(ctx, q.Text, fq, &info)
	if vector != nil {
		info.Mode = ModeHybrid
	}

	// Centrality can only shape scores when the graph has edges at all.
	boosted := e.snap != nil && e.opts.BoostFactor > 0 && e.snap.Stats.MaxDegree > 0
	if boosted {
		info.Mode = ModeGraphBoosted
	}

	// Stages 3-5: fuse over the union of candidates, boost, and drop
	// anything secret. A document absent from one signal contributes zero
	// for that signal; when the vector stage was skipped the fused score is
	// the BM25 score alone, never renormalized.
	candidates := make(map[string]bool, len(bm25)+len(vector))
	for id := range bm25 {
		candidates[id] = true
	}
	for id := range vector {
		candidates[id] = true
	}

	results := make([]Result, 0, len(candidates))
	for id := range candidates {
		entry := e.index.Entries[id]
		if entry == nil || entry.Classification == string(vault.ClassSecret) {
			continue
		}
		r := Result{ID: id, Title: entry.Title, Type: entry.Type, BM25: bm25[id]}
		if vector != nil {
			r.Vector = vector[id]
			r.Score = e.opts.FTSWeight*r.BM25 + e.opts.VectorWeight*r.Vector
		} else {
			r.Score = r.BM25
		}
		if r.Score <= 0 {
			continue
		}
		if boosted {
			r.Boost = e.opts.BoostFactor * e.snap.Centrality(id)
			r.Score *= 1 + r.Boost
		}
		results = append(results, r)
	}

	// Stage 6: rank and truncate.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	terms := fulltext.Tokenize(q.Text)
	for i := range results {
		if entry := e.index.Entries[results[i].ID]; entry != nil {
			results[i].Snippet = Snippet(entry.Body, terms, e.opts.SnippetLength)
		}
	}
	return results, info
}

// vectorStage embeds the query and scores cosine similarity against every
// stored vector that passes the query filters. It returns nil whenever the
// stage cannot run (no backend, empty store, model mismatch, backend down,
// embedding failure), recording the reason so fusion stays honest about
// which signals it combined.
func (e *Engine) vectorStage(ctx context.Context, text string, fq fulltext.Query, info *Info) map[string]float64 {
	if e.backend == nil {
		return nil
	}
	if e.vectors == nil || e.vectors.Len() == 0 {
		info.note("embedding index is empty")
		return nil
	}
	if e.vectors.Model != e.backend.Model() {
		info.note("embedding model mismatch: index built with %s, backend is %s", e.vectors.Model, e.backend.Model())
		return nil
	}
	if !e.backend.Available(ctx) {
		info.note("embedding backend unavailable")
		return nil
	}

	vecs, err := e.backend.Embed(ctx, []string{text})
	if err != nil {
		info.note("query embedding failed: %v", err)
		return nil
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		info.note("backend returned an empty query embedding")
		return nil
	}
	qv := vecs[0]

	scores := make(map[string]float64, e.vectors.Len())
	for id, entry := range e.vectors.Entries {
		if !e.index.Matches(id, fq) {
			continue
		}
		sim := embedding.Cosine(qv, entry.Vector)
		if sim < 0 {
			sim = 0
		} else if sim > 1 {
			sim = 1
		}
		scores[id] = sim
	}
	return scores
}
