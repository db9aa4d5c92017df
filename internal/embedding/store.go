package embedding

import "math"

// Entry pairs a document's vector with the content hash it was computed
// from, the staleness marker for incremental rebuilds.
type Entry struct {
	Hash   string    `json:"hash"`
	Vector []float32 `json:"vector"`
}

// Store is the persisted embedding artifact. Model and Dimensions describe
// every vector in Entries; mixing models in one store is never valid.
type Store struct {
	Model      string            `json:"model"`
	Dimensions int               `json:"dimensions"`
	Entries    map[string]*Entry `json:"entries"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{Entries: map[string]*Entry{}}
}

func (s *Store) reset() {
	if s.Entries == nil {
		s.Entries = map[string]*Entry{}
	}
}

// Len returns the number of stored vectors.
func (s *Store) Len() int { return len(s.Entries) }

// Cosine returns the cosine similarity of two vectors, or 0 when their
// lengths differ or either has zero magnitude.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
