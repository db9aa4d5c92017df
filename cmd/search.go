package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/config"
	"github.com/seralba/notedex/internal/embedding"
	"github.com/seralba/notedex/internal/fulltext"
	"github.com/seralba/notedex/internal/graph"
	"github.com/seralba/notedex/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search the vault",
	Long: `Runs a hybrid query over the built artifacts: BM25 full-text ranking,
fused with vector similarity when an embedding backend is configured and
reachable, and boosted by link-graph centrality. Missing signals degrade
the mode rather than failing the query.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().String("type", "", "only documents of this type")
	searchCmd.Flags().String("tag", "", "only documents carrying this tag")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("explain", false, "show the component scores per result")
	searchCmd.Flags().Bool("fts-only", false, "skip the vector stage even if a backend is configured")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := strings.Join(args, " ")

	limit, _ := cmd.Flags().GetInt("limit")
	typeFilter, _ := cmd.Flags().GetString("type")
	tagFilter, _ := cmd.Flags().GetString("tag")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	explain, _ := cmd.Flags().GetBool("explain")
	ftsOnly, _ := cmd.Flags().GetBool("fts-only")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.Search.Limit
	}

	engine, empty, err := loadEngine(cfg, ftsOnly)
	if err != nil {
		return err
	}
	if empty {
		fmt.Println("Index is empty. Run `notedex build` first.")
		return nil
	}

	results, info := engine.Search(ctx, search.Query{
		Text:  queryText,
		Type:  typeFilter,
		Tag:   tagFilter,
		Limit: limit,
	})

	if jsonOutput {
		return printSearchJSON(queryText, info, results)
	}
	printSearchTable(info, results, explain)
	return nil
}

// loadEngine assembles a search engine from the persisted artifacts. The
// embeddings store and graph snapshot are optional; empty reports an index
// with no documents, which callers surface as a hint rather than an error.
// ftsOnly leaves the vector stage unwired entirely.
func loadEngine(cfg *config.Config, ftsOnly bool) (engine *search.Engine, empty bool, err error) {
	ix := fulltext.New()
	ok, err := loadArtifact(cfg.IndexPath(), ix)
	if err != nil {
		return nil, false, err
	}
	if !ok || ix.Len() == 0 {
		return nil, true, nil
	}

	store := embedding.NewStore()
	var backend embedding.Embedder
	if !ftsOnly {
		if _, err := loadArtifact(cfg.EmbeddingsPath(), store); err != nil {
			return nil, false, err
		}
		if backends := buildBackends(cfg); len(backends) > 0 {
			backend = backends[0]
		}
	}

	var snap *graph.Snapshot
	loaded := &graph.Snapshot{}
	ok, err = loadArtifact(cfg.GraphPath(), loaded)
	if err != nil {
		return nil, false, err
	}
	if ok {
		snap = loaded
	}

	opts := search.Options{
		FTSWeight:     cfg.Search.FTSWeight,
		VectorWeight:  cfg.Search.VectorWeight,
		BoostFactor:   cfg.Search.BoostFactor,
		Params:        fulltext.Params{K1: cfg.Search.K1, B: cfg.Search.B},
		SnippetLength: cfg.Search.SnippetLength,
	}
	return search.NewEngine(ix, store, backend, snap, opts), false, nil
}

type searchOutput struct {
	Query   string          `json:"query"`
	Mode    string          `json:"mode"`
	Notes   []string        `json:"notes,omitempty"`
	Results []search.Result `json:"results"`
}

func printSearchJSON(query string, info search.Info, results []search.Result) error {
	out := searchOutput{
		Query:   query,
		Mode:    info.Mode,
		Notes:   info.Notes,
		Results: results,
	}
	if out.Results == nil {
		out.Results = []search.Result{}
	}
	return printJSON(out)
}

func printSearchTable(info search.Info, results []search.Result, explain bool) {
	if explain || verbose {
		for _, n := range info.Notes {
			fmt.Fprintf(os.Stderr, "Note: %s\n", n)
		}
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Printf("Found %d results (%s):\n\n", len(results), info.Mode)
	for i, r := range results {
		fmt.Printf("  %d. [%.3f] %s (%s)\n", i+1, r.Score, r.Title, r.ID)
		if explain {
			fmt.Printf("     bm25=%.3f vector=%.3f boost=%.3f\n", r.BM25, r.Vector, r.Boost)
		}
		if r.Snippet != "" {
			fmt.Printf("     %s\n", r.Snippet)
		}
		fmt.Println()
	}
}
