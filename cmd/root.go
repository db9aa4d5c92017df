package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	vaultFlag string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "notedex",
	Short: "Hybrid search over a markdown knowledge vault",
	Long: `Notedex indexes a vault of markdown documents into three local
artifacts (a BM25 full-text index, a vector embedding store, and a
knowledge graph) and answers queries by fusing all three signals into
one explainable ranking. Everything stays on disk next to the vault;
the corpus itself is the only source of truth.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".notedex.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "", "vault directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
