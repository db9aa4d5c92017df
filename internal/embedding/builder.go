package embedding

import (
	"context"
	"fmt"
	"sort"

	"github.com/seralba/notedex/internal/vault"
)

const defaultBatchSize = 64

// BuildResult summarizes an embedding rebuild. An empty Backend means no
// backend was available and the build was a deliberate no-op.
type BuildResult struct {
	Backend   string
	Processed int
	Skipped   int
	Deleted   int
	Failed    int
	Errors    []error
}

// Changed reports whether the store was modified and needs persisting.
func (r *BuildResult) Changed() bool { return r.Processed+r.Deleted > 0 }

// Builder incrementally maintains a vector Store from vault documents.
type Builder struct {
	Backends  []Embedder
	BatchSize int // texts per Embed call; defaultBatchSize when zero

	// Checkpoint persists the store after every applied batch, so an
	// interrupted build resumes without recomputing saved vectors.
	Checkpoint func(*Store) error

	// Progress, when set, receives (done, total) over the stale documents.
	Progress func(done, total int)
}

// Build brings store up to date with docs. Per-document embed failures are
// aggregated in the result; only checkpoint I/O failures and context
// cancellation return an error, and the store keeps whatever progress was
// checkpointed before that.
func (b *Builder) Build(ctx context.Context, store *Store, docs []vault.Document, force bool) (*BuildResult, error) {
	store.reset()
	result := &BuildResult{}

	backend := FirstAvailable(ctx, b.Backends)
	if backend == nil {
		return result, nil
	}
	result.Backend = backend.Model()

	// A model change invalidates every stored vector.
	if store.Model != "" && store.Model != backend.Model() {
		store.Entries = map[string]*Entry{}
		store.Dimensions = 0
	}
	store.Model = backend.Model()

	live := make(map[string]bool, len(docs))
	var stale []vault.Document
	for _, doc := range docs {
		live[doc.ID] = true
		if !force {
			if e := store.Entries[doc.ID]; e != nil && e.Hash == doc.ContentHash {
				result.Skipped++
				continue
			}
		}
		stale = append(stale, doc)
	}

	var gone []string
	for id := range store.Entries {
		if !live[id] {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	for _, id := range gone {
		delete(store.Entries, id)
		result.Deleted++
	}

	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	done := 0
	for start := 0; start < len(stale); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + batchSize
		if end > len(stale) {
			end = len(stale)
		}
		batch := stale[start:end]

		texts := make([]string, len(batch))
		for i, doc := range batch {
			texts[i] = PrepareText(doc)
		}

		vectors, err := backend.Embed(ctx, texts)
		switch {
		case err != nil:
			result.Failed += len(batch)
			result.Errors = append(result.Errors, fmt.Errorf("embedding batch starting at %s: %w", batch[0].ID, err))
		case len(vectors) != len(batch):
			result.Failed += len(batch)
			result.Errors = append(result.Errors, fmt.Errorf("backend returned %d vectors for %d documents", len(vectors), len(batch)))
		default:
			for i, doc := range batch {
				if err := b.apply(store, doc, vectors[i]); err != nil {
					result.Failed++
					result.Errors = append(result.Errors, err)
					continue
				}
				result.Processed++
			}
			if b.Checkpoint != nil {
				if err := b.Checkpoint(store); err != nil {
					return result, fmt.Errorf("checkpointing embeddings: %w", err)
				}
			}
		}

		done += len(batch)
		if b.Progress != nil {
			b.Progress(done, len(stale))
		}
	}

	return result, nil
}

func (b *Builder) apply(store *Store, doc vault.Document, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for %s", doc.ID)
	}
	if store.Dimensions == 0 {
		store.Dimensions = len(vec)
	}
	if len(vec) != store.Dimensions {
		return fmt.Errorf("vector for %s has %d dimensions, store has %d", doc.ID, len(vec), store.Dimensions)
	}
	store.Entries[doc.ID] = &Entry{Hash: doc.ContentHash, Vector: vec}
	return nil
}
