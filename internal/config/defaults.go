package config

// modelPresets maps each provider to its default embedding model.
var modelPresets = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultExcludes are glob patterns excluded from indexing by default, on
// top of the loader's built-in skips for hidden and template directories.
var DefaultExcludes = []string{
	"**/*.excalidraw.md",
}

// DefaultConfig returns a Config with sensible defaults: index the current
// directory, keep artifacts under .notedex/, and embed with OpenAI when an
// API key is present.
func DefaultConfig() *Config {
	return &Config{
		Vault:       ".",
		DataDir:     ".notedex",
		Include:     []string{"**/*.md"},
		Exclude:     DefaultExcludes,
		MaxFileSize: 1 << 20,
		Embedding: EmbeddingConfig{
			Provider:  ProviderOpenAI,
			Model:     modelPresets[ProviderOpenAI],
			APIKeyEnv: "OPENAI_API_KEY",
			BatchSize: 64,
		},
		Search: SearchConfig{
			K1:            1.2,
			B:             0.75,
			FTSWeight:     0.7,
			VectorWeight:  0.3,
			BoostFactor:   0.1,
			SnippetLength: 200,
			Limit:         10,
		},
		Stale: StaleConfig{
			MediumDays:   90,
			HighDays:     120,
			CriticalDays: 180,
		},
	}
}

// DefaultModel returns the default embedding model for the given provider.
// Returns the OpenAI default if the provider is not recognized.
func DefaultModel(provider ProviderType) string {
	if m, ok := modelPresets[provider]; ok {
		return m
	}
	return modelPresets[ProviderOpenAI]
}
