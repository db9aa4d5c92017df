package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	"github.com/seralba/notedex/internal/vault"
)

// fakeEmbedder derives a deterministic 4-dimensional vector from each
// text's SHA-256, so tests never depend on a live backend.
type fakeEmbedder struct {
	model       string
	unavailable bool
	failWith    error
	embedCalls  int
	textsSeen   int
}

func (f *fakeEmbedder) Available(ctx context.Context) bool { return !f.unavailable }
func (f *fakeEmbedder) Model() string                      { return f.model }

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.embedCalls++
	f.textsSeen += len(texts)
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		sum := sha256.Sum256([]byte(text))
		vec := make([]float32, 4)
		for d := range vec {
			vec[d] = float32(sum[d]) / 255
		}
		out[i] = vec
	}
	return out, nil
}

func embedDoc(id, body string) vault.Document {
	sum := sha256.Sum256([]byte(body))
	return vault.Document{
		ID:          id,
		Title:       id,
		Body:        body,
		ContentHash: hex.EncodeToString(sum[:]),
	}
}

func TestBuildNoBackend(t *testing.T) {
	store := NewStore()
	b := &Builder{Backends: []Embedder{&fakeEmbedder{model: "fake", unavailable: true}}}

	result, err := b.Build(context.Background(), store, []vault.Document{embedDoc("a.md", "text")}, false)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Backend != "" {
		t.Errorf("Backend = %q, want empty for unavailable backend", result.Backend)
	}
	if result.Changed() || store.Len() != 0 {
		t.Errorf("no-backend build did work: %+v, store len %d", result, store.Len())
	}
}

func TestBuildPicksFirstAvailable(t *testing.T) {
	down := &fakeEmbedder{model: "down", unavailable: true}
	up := &fakeEmbedder{model: "up"}
	b := &Builder{Backends: []Embedder{down, up}}

	result, err := b.Build(context.Background(), NewStore(), []vault.Document{embedDoc("a.md", "text")}, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Backend != "up" {
		t.Errorf("Backend = %q, want %q", result.Backend, "up")
	}
	if down.embedCalls != 0 || up.embedCalls != 1 {
		t.Errorf("calls: down=%d up=%d", down.embedCalls, up.embedCalls)
	}
}

func TestBuildIncrementalSkip(t *testing.T) {
	fake := &fakeEmbedder{model: "fake"}
	b := &Builder{Backends: []Embedder{fake}}
	store := NewStore()
	docs := []vault.Document{embedDoc("a.md", "alpha"), embedDoc("b.md", "beta")}

	first, err := b.Build(context.Background(), store, docs, false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Processed != 2 {
		t.Fatalf("first = %+v", first)
	}
	if store.Dimensions != 4 || store.Model != "fake" {
		t.Fatalf("store = %+v", store)
	}

	second, err := b.Build(context.Background(), store, docs, false)
	if err != nil {
		t.Fatal(err)
	}
	if second.Processed != 0 || second.Skipped != 2 {
		t.Errorf("second = %+v, want everything skipped", second)
	}
	if fake.textsSeen != 2 {
		t.Errorf("backend saw %d texts, want 2 (no recomputation)", fake.textsSeen)
	}

	// Editing one document re-embeds only that document.
	docs[0] = embedDoc("a.md", "alpha v2")
	third, err := b.Build(context.Background(), store, docs, false)
	if err != nil {
		t.Fatal(err)
	}
	if third.Processed != 1 || third.Skipped != 1 {
		t.Errorf("third = %+v", third)
	}
}

func TestBuildModelChangeForcesRebuild(t *testing.T) {
	store := NewStore()
	docs := []vault.Document{embedDoc("a.md", "alpha")}

	oldBackend := &Builder{Backends: []Embedder{&fakeEmbedder{model: "old"}}}
	if _, err := oldBackend.Build(context.Background(), store, docs, false); err != nil {
		t.Fatal(err)
	}

	newFake := &fakeEmbedder{model: "new"}
	newBackend := &Builder{Backends: []Embedder{newFake}}
	result, err := newBackend.Build(context.Background(), store, docs, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v, want full re-embed on model change", result)
	}
	if store.Model != "new" {
		t.Errorf("Model = %q", store.Model)
	}
}

func TestBuildDeletesMissingDocuments(t *testing.T) {
	b := &Builder{Backends: []Embedder{&fakeEmbedder{model: "fake"}}}
	store := NewStore()
	docs := []vault.Document{embedDoc("a.md", "alpha"), embedDoc("b.md", "beta")}

	if _, err := b.Build(context.Background(), store, docs, false); err != nil {
		t.Fatal(err)
	}

	result, err := b.Build(context.Background(), store, docs[:1], false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", result.Deleted)
	}
	if _, ok := store.Entries["b.md"]; ok {
		t.Error("entry for removed document still in store")
	}
}

func TestBuildCheckpoints(t *testing.T) {
	saves := 0
	b := &Builder{
		Backends:   []Embedder{&fakeEmbedder{model: "fake"}},
		BatchSize:  1,
		Checkpoint: func(s *Store) error { saves++; return nil },
	}

	docs := []vault.Document{embedDoc("a.md", "1"), embedDoc("b.md", "2"), embedDoc("c.md", "3")}
	if _, err := b.Build(context.Background(), NewStore(), docs, false); err != nil {
		t.Fatal(err)
	}
	if saves != 3 {
		t.Errorf("checkpoint ran %d times, want once per batch (3)", saves)
	}
}

func TestBuildCheckpointFailureIsFatal(t *testing.T) {
	ioErr := errors.New("disk full")
	b := &Builder{
		Backends:   []Embedder{&fakeEmbedder{model: "fake"}},
		Checkpoint: func(s *Store) error { return ioErr },
	}

	_, err := b.Build(context.Background(), NewStore(), []vault.Document{embedDoc("a.md", "x")}, false)
	if !errors.Is(err, ioErr) {
		t.Errorf("Build() error = %v, want wrapped checkpoint failure", err)
	}
}

func TestBuildEmbedFailureIsRecoverable(t *testing.T) {
	b := &Builder{Backends: []Embedder{&fakeEmbedder{model: "fake", failWith: errors.New("backend down")}}}

	result, err := b.Build(context.Background(), NewStore(), []vault.Document{embedDoc("a.md", "x")}, false)
	if err != nil {
		t.Fatalf("per-document failures must not fail the build, got %v", err)
	}
	if result.Failed != 1 || len(result.Errors) != 1 {
		t.Errorf("result = %+v, want one recorded failure", result)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}
