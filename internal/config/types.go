package config

import "path/filepath"

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderNone   ProviderType = "none"
)

// Config is the top-level notedex configuration, corresponding to .notedex.yml.
type Config struct {
	Vault       string          `yaml:"vault" koanf:"vault"`
	DataDir     string          `yaml:"data_dir" koanf:"data_dir"`
	Include     []string        `yaml:"include" koanf:"include"`
	Exclude     []string        `yaml:"exclude" koanf:"exclude"`
	MaxFileSize int64           `yaml:"max_file_size" koanf:"max_file_size"`
	Embedding   EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Search      SearchConfig    `yaml:"search" koanf:"search"`
	Stale       StaleConfig     `yaml:"stale" koanf:"stale"`
}

// EmbeddingConfig selects and parameterizes the embedding backend.
type EmbeddingConfig struct {
	Provider  ProviderType `yaml:"provider" koanf:"provider"`
	Model     string       `yaml:"model" koanf:"model"`
	Endpoint  string       `yaml:"endpoint" koanf:"endpoint"`
	APIKeyEnv string       `yaml:"api_key_env" koanf:"api_key_env"`
	BatchSize int          `yaml:"batch_size" koanf:"batch_size"`
}

// SearchConfig holds the ranking knobs.
type SearchConfig struct {
	K1            float64 `yaml:"k1" koanf:"k1"`
	B             float64 `yaml:"b" koanf:"b"`
	FTSWeight     float64 `yaml:"fts_weight" koanf:"fts_weight"`
	VectorWeight  float64 `yaml:"vector_weight" koanf:"vector_weight"`
	BoostFactor   float64 `yaml:"boost_factor" koanf:"boost_factor"`
	SnippetLength int     `yaml:"snippet_length" koanf:"snippet_length"`
	Limit         int     `yaml:"limit" koanf:"limit"`
}

// StaleConfig sets the age thresholds, in days since a document was last
// verified, at which the stale report escalates its severity.
type StaleConfig struct {
	MediumDays   int `yaml:"medium_days" koanf:"medium_days"`
	HighDays     int `yaml:"high_days" koanf:"high_days"`
	CriticalDays int `yaml:"critical_days" koanf:"critical_days"`
}

// DataPath returns the artifact directory inside the vault.
func (c *Config) DataPath() string { return filepath.Join(c.Vault, c.DataDir) }

// IndexPath returns the full-text index artifact path.
func (c *Config) IndexPath() string { return filepath.Join(c.DataPath(), "index.json") }

// EmbeddingsPath returns the embedding store artifact path.
func (c *Config) EmbeddingsPath() string { return filepath.Join(c.DataPath(), "embeddings.json") }

// GraphPath returns the graph snapshot artifact path.
func (c *Config) GraphPath() string { return filepath.Join(c.DataPath(), "graph.json") }

// JournalPath returns the build-history database path.
func (c *Config) JournalPath() string { return filepath.Join(c.DataPath(), "journal.db") }
