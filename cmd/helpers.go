package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/seralba/notedex/internal/artifact"
	"github.com/seralba/notedex/internal/config"
	"github.com/seralba/notedex/internal/embedding"
	"github.com/seralba/notedex/internal/vault"
)

// loadConfig loads and validates the config, applying the --vault override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `notedex init` to create a config file", err)
	}
	if vaultFlag != "" {
		cfg.Vault = vaultFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildBackends returns the configured embedding backends in probe order.
// Empty when the provider is none, which every caller treats as a valid
// text-only setup.
func buildBackends(cfg *config.Config) []embedding.Embedder {
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		return []embedding.Embedder{embedding.NewOpenAIEmbedder(cfg.APIKey(), cfg.Embedding.Model)}
	case config.ProviderOllama:
		return []embedding.Embedder{embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.Endpoint)}
	default:
		return nil
	}
}

// loadDocuments runs the vault loader with the configured filters and
// surfaces per-document warnings without failing the run.
func loadDocuments(cfg *config.Config) ([]vault.Document, *vault.LoadReport, error) {
	docs, report, err := vault.Load(vault.Options{
		Root:        cfg.Vault,
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		MaxFileSize: cfg.MaxFileSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading vault %s: %w", cfg.Vault, err)
	}
	for _, w := range report.Warnings {
		verbosef("Warning: %s: %s\n", w.Path, w.Message)
	}
	return docs, report, nil
}

// loadArtifact reads a persisted JSON artifact into v. A missing file means
// a fresh start (false, nil); a corrupt file is reported and also treated
// as a fresh start, so builders fall back to a full rebuild.
func loadArtifact(path string, v any) (bool, error) {
	err := artifact.Load(path, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, artifact.ErrCorrupt):
		fmt.Fprintf(os.Stderr, "Warning: %s is corrupt, rebuilding from scratch\n", path)
		return false, nil
	default:
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
}

// verbosef prints to stderr when --verbose is set.
func verbosef(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON writes v to stdout as indented JSON, the shape every --json
// flag produces.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
