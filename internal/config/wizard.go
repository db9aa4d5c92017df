package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectVaultFlavor checks a directory for well-known knowledge-base
// markers to make the wizard's suggestions friendlier.
func detectVaultFlavor(dir string) string {
	if _, err := os.Stat(filepath.Join(dir, ".obsidian")); err == nil {
		return "Obsidian"
	}
	if _, err := os.Stat(filepath.Join(dir, "journals")); err == nil {
		if _, err := os.Stat(filepath.Join(dir, "pages")); err == nil {
			return "Logseq"
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config, saved to .notedex.yml in the current directory.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to notedex! Let's configure your vault.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Vault root.
	vaultPrompt := promptui.Prompt{
		Label:   "Vault directory",
		Default: ".",
		Validate: func(input string) error {
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("cannot access %s", input)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", input)
			}
			return nil
		},
	}
	vault, err := vaultPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("vault selection: %w", err)
	}
	cfg.Vault = vault

	if flavor := detectVaultFlavor(vault); flavor != "" {
		fmt.Printf("Detected vault flavor: %s\n\n", flavor)
	}

	// 2. Embedding provider.
	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{
			"openai (hosted, needs OPENAI_API_KEY)",
			"ollama (local models, no key needed)",
			"none (full-text and graph search only)",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []ProviderType{ProviderOpenAI, ProviderOllama, ProviderNone}
	cfg.Embedding.Provider = providers[providerIdx]

	// 3. Embedding model.
	if cfg.Embedding.Provider != ProviderNone {
		modelPrompt := promptui.Prompt{
			Label:   "Embedding model",
			Default: DefaultModel(cfg.Embedding.Provider),
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model selection: %w", err)
		}
		cfg.Embedding.Model = model
	} else {
		cfg.Embedding.Model = ""
	}

	// 4. Include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(cfg.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if parts := splitAndTrim(includeStr); len(parts) > 0 {
		cfg.Include = parts
	}

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	}

	// Check for API key.
	if cfg.Embedding.Provider == ProviderOpenAI && cfg.APIKey() == "" {
		fmt.Printf("\nNote: Set %s in your environment before running notedex build embeddings.\n", cfg.Embedding.APIKeyEnv)
	}

	// Save to .notedex.yml.
	configPath := ".notedex.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
