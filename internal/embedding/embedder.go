// Package embedding maintains per-document embedding vectors for semantic
// search. The computation is abstracted behind a capability interface so the
// builder can be constructed with zero, one, or many backends; with none
// available it performs no work and the rest of the system degrades to
// full-text-only operation.
package embedding

import "context"

// Embedder computes fixed-dimension vectors for texts.
type Embedder interface {
	// Available reports whether the backend can serve requests right now,
	// e.g. an API key is configured or a local server is reachable.
	Available(ctx context.Context) bool

	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Model identifies the embedding model. It is recorded in the store and
	// compared on later builds and queries: a mismatch forces a full
	// re-embed and disables vector scoring respectively.
	Model() string
}

// FirstAvailable probes backends in order and returns the first usable one,
// or nil when none are.
func FirstAvailable(ctx context.Context, backends []Embedder) Embedder {
	for _, b := range backends {
		if b != nil && b.Available(ctx) {
			return b
		}
	}
	return nil
}
