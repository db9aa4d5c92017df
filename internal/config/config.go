package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NOTEDEX_*). Nested keys use a double
// underscore: NOTEDEX_SEARCH__LIMIT overrides search.limit.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: NOTEDEX_VAULT -> vault,
	// NOTEDEX_EMBEDDING__MODEL -> embedding.model, etc.
	if err := k.Load(env.Provider("NOTEDEX_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "NOTEDEX_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized embedding provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderNone:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return fmt.Errorf("vault is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Embedding.Provider != "" && !validProviders[c.Embedding.Provider] {
		return fmt.Errorf("invalid embedding provider %q: must be one of openai, ollama, none", c.Embedding.Provider)
	}
	if c.Embedding.Provider != ProviderNone && c.Embedding.Provider != "" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding model is required for provider %q", c.Embedding.Provider)
	}
	if c.Embedding.BatchSize < 0 {
		return fmt.Errorf("embedding batch_size must be non-negative")
	}

	s := c.Search
	if s.K1 <= 0 {
		return fmt.Errorf("search k1 must be positive")
	}
	if s.B < 0 || s.B > 1 {
		return fmt.Errorf("search b must be within [0,1]")
	}
	if s.FTSWeight < 0 || s.VectorWeight < 0 {
		return fmt.Errorf("search weights must be non-negative")
	}
	if s.FTSWeight+s.VectorWeight == 0 {
		return fmt.Errorf("at least one search weight must be positive")
	}
	if s.BoostFactor < 0 {
		return fmt.Errorf("search boost_factor must be non-negative")
	}
	if s.Limit <= 0 {
		return fmt.Errorf("search limit must be positive")
	}
	if s.SnippetLength < 0 {
		return fmt.Errorf("search snippet_length must be non-negative")
	}

	st := c.Stale
	if st.MediumDays <= 0 || st.HighDays <= 0 || st.CriticalDays <= 0 {
		return fmt.Errorf("stale thresholds must be positive")
	}
	if st.MediumDays > st.HighDays || st.HighDays > st.CriticalDays {
		return fmt.Errorf("stale thresholds must be ascending: medium <= high <= critical")
	}

	return nil
}

// APIKey resolves the embedding API key from the configured environment
// variable. Empty when unset, which the OpenAI backend reports as
// unavailable.
func (c *Config) APIKey() string {
	if c.Embedding.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Embedding.APIKeyEnv)
}
