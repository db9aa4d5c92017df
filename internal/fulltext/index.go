// Package fulltext maintains a BM25-ranked inverted index over vault
// documents. The index is a plain JSON-serializable structure: rebuilding
// against an unchanged vault reproduces it byte for byte.
package fulltext

import (
	"math"
	"sort"
	"strings"

	"github.com/seralba/notedex/internal/vault"
)

// Params are the BM25 length-normalization constants.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams match the standard BM25 parameterization.
var DefaultParams = Params{K1: 1.2, B: 0.75}

// Entry holds one document's indexed state: the staleness markers (hash,
// mod time), its token count for length normalization, and the metadata and
// body the search engine needs for filtering and snippets.
type Entry struct {
	Hash           string   `json:"hash"`
	ModTime        int64    `json:"mod_time"`
	Tokens         int      `json:"tokens"`
	Title          string   `json:"title"`
	Type           string   `json:"type,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Classification string   `json:"classification"`
	Body           string   `json:"body"`
}

// Index is the persisted full-text artifact.
type Index struct {
	Entries     map[string]*Entry         `json:"entries"`
	Postings    map[string]map[string]int `json:"postings"` // term -> doc ID -> frequency
	TotalTokens int                       `json:"total_tokens"`
}

// New returns an empty index.
func New() *Index {
	return &Index{
		Entries:  map[string]*Entry{},
		Postings: map[string]map[string]int{},
	}
}

// reset re-establishes map invariants after JSON decoding, which leaves
// absent maps nil.
func (ix *Index) reset() {
	if ix.Entries == nil {
		ix.Entries = map[string]*Entry{}
	}
	if ix.Postings == nil {
		ix.Postings = map[string]map[string]int{}
	}
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.Entries) }

// Terms returns the number of distinct indexed terms.
func (ix *Index) Terms() int { return len(ix.Postings) }

// indexText is the canonical searchable text for a document. It must be
// reproducible from a stored Entry so Remove can locate its postings.
func indexText(title string, tags []string, body string) string {
	return title + "\n" + strings.Join(tags, " ") + "\n" + body
}

// Upsert replaces the entry and postings for doc.
func (ix *Index) Upsert(doc vault.Document) {
	ix.reset()
	ix.Remove(doc.ID)

	tokens := Tokenize(indexText(doc.Title, doc.Tags, doc.Body))
	ix.Entries[doc.ID] = &Entry{
		Hash:           doc.ContentHash,
		ModTime:        doc.ModTime.Unix(),
		Tokens:         len(tokens),
		Title:          doc.Title,
		Type:           doc.Type,
		Tags:           doc.Tags,
		Classification: string(doc.Classification),
		Body:           doc.Body,
	}
	for _, tok := range tokens {
		m := ix.Postings[tok]
		if m == nil {
			m = map[string]int{}
			ix.Postings[tok] = m
		}
		m[doc.ID]++
	}
	ix.TotalTokens += len(tokens)
}

// Remove deletes id from the index, dropping terms whose posting list
// becomes empty.
func (ix *Index) Remove(id string) {
	e, ok := ix.Entries[id]
	if !ok {
		return
	}
	for _, tok := range Tokenize(indexText(e.Title, e.Tags, e.Body)) {
		if m := ix.Postings[tok]; m != nil {
			delete(m, id)
			if len(m) == 0 {
				delete(ix.Postings, tok)
			}
		}
	}
	ix.TotalTokens -= e.Tokens
	delete(ix.Entries, id)
}

// BuildResult summarizes an index rebuild.
type BuildResult struct {
	Processed int
	Skipped   int
	Deleted   int
}

// Changed reports whether the build altered the index, i.e. whether the
// artifact needs to be rewritten.
func (r BuildResult) Changed() bool { return r.Processed+r.Deleted > 0 }

// Build diffs the index against the current documents: changed or new
// documents (by content hash) are re-indexed, unchanged ones skipped, and
// entries for documents no longer in the vault removed. force re-indexes
// everything.
func (ix *Index) Build(docs []vault.Document, force bool) BuildResult {
	ix.reset()
	var result BuildResult

	live := make(map[string]bool, len(docs))
	for _, doc := range docs {
		live[doc.ID] = true
		if !force {
			if e, ok := ix.Entries[doc.ID]; ok && e.Hash == doc.ContentHash {
				result.Skipped++
				continue
			}
		}
		ix.Upsert(doc)
		result.Processed++
	}

	var stale []string
	for id := range ix.Entries {
		if !live[id] {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		ix.Remove(id)
		result.Deleted++
	}
	return result
}

// Query selects and filters documents for Search.
type Query struct {
	Text string
	Type string // exact document type, case-insensitive
	Tag  string // tag membership, case-insensitive
}

// Hit is a raw-scored match. Normalization happens at the fusion layer.
type Hit struct {
	ID    string
	Score float64
}

// Search scores every document containing at least one query term, sorted
// by descending BM25 score with document ID as the deterministic tie-break.
func (ix *Index) Search(q Query, p Params) []Hit {
	terms := Tokenize(q.Text)
	n := len(ix.Entries)
	if len(terms) == 0 || n == 0 {
		return nil
	}
	avg := float64(ix.TotalTokens) / float64(n)
	if avg <= 0 {
		avg = 1
	}

	scores := map[string]float64{}
	seen := map[string]bool{}
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true

		posting := ix.Postings[term]
		df := len(posting)
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
		for id, tf := range posting {
			e := ix.Entries[id]
			if e == nil {
				continue
			}
			norm := float64(tf) + p.K1*(1-p.B+p.B*float64(e.Tokens)/avg)
			scores[id] += idf * (float64(tf) * (p.K1 + 1)) / norm
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		if !ix.Matches(id, q) {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	return hits
}

// Matches reports whether an entry passes the query's type and tag filters.
// The search engine also uses it to gate vector-only candidates.
func (ix *Index) Matches(id string, q Query) bool {
	e := ix.Entries[id]
	if e == nil {
		return false
	}
	if q.Type != "" && !strings.EqualFold(e.Type, q.Type) {
		return false
	}
	if q.Tag != "" {
		found := false
		for _, tag := range e.Tags {
			if strings.EqualFold(tag, q.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
