package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/embedding"
	"github.com/seralba/notedex/internal/fulltext"
	"github.com/seralba/notedex/internal/graph"
	"github.com/seralba/notedex/internal/journal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show artifact health and build history",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

type indexStats struct {
	Documents        int            `json:"documents"`
	Terms            int            `json:"terms"`
	TotalTokens      int            `json:"total_tokens"`
	ByType           map[string]int `json:"by_type,omitempty"`
	ByClassification map[string]int `json:"by_classification,omitempty"`
}

type embeddingStats struct {
	Vectors    int    `json:"vectors"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

type graphStats struct {
	graph.Stats
	Hubs []graph.Hub `json:"hubs,omitempty"`
}

type buildStats struct {
	At        time.Time `json:"at"`
	Duration  string    `json:"duration"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed,omitempty"`
	Note      string    `json:"note,omitempty"`
}

type statsOutput struct {
	Index      *indexStats           `json:"index,omitempty"`
	Embeddings *embeddingStats       `json:"embeddings,omitempty"`
	Graph      *graphStats           `json:"graph,omitempty"`
	Builds     map[string]buildStats `json:"builds,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var out statsOutput

	ix := fulltext.New()
	if ok, err := loadArtifact(cfg.IndexPath(), ix); err != nil {
		return err
	} else if ok {
		s := &indexStats{
			Documents:        ix.Len(),
			Terms:            ix.Terms(),
			TotalTokens:      ix.TotalTokens,
			ByType:           map[string]int{},
			ByClassification: map[string]int{},
		}
		for _, e := range ix.Entries {
			if e.Type != "" {
				s.ByType[e.Type]++
			}
			if e.Classification != "" {
				s.ByClassification[e.Classification]++
			}
		}
		out.Index = s
	}

	store := embedding.NewStore()
	if ok, err := loadArtifact(cfg.EmbeddingsPath(), store); err != nil {
		return err
	} else if ok && store.Len() > 0 {
		out.Embeddings = &embeddingStats{
			Vectors:    store.Len(),
			Model:      store.Model,
			Dimensions: store.Dimensions,
		}
	}

	snap := &graph.Snapshot{}
	if ok, err := loadArtifact(cfg.GraphPath(), snap); err != nil {
		return err
	} else if ok {
		out.Graph = &graphStats{Stats: snap.Stats, Hubs: snap.Hubs(5)}
	}

	// Only read the journal if it exists; stats should never create files.
	if _, err := os.Stat(cfg.JournalPath()); err == nil {
		jnl, err := journal.Open(cfg.JournalPath())
		if err != nil {
			return err
		}
		defer jnl.Close()

		last, err := jnl.LastRuns(ctx)
		if err != nil {
			return err
		}
		if len(last) > 0 {
			out.Builds = make(map[string]buildStats, len(last))
			for name, run := range last {
				out.Builds[name] = buildStats{
					At:        run.StartedAt,
					Duration:  run.Duration.Round(time.Millisecond).String(),
					Processed: run.Processed,
					Failed:    run.Failed,
					Note:      run.Note,
				}
			}
		}
	}

	if jsonOutput {
		return printJSON(out)
	}
	printStats(out)
	return nil
}

func printStats(out statsOutput) {
	if out.Index == nil && out.Embeddings == nil && out.Graph == nil {
		fmt.Println("No artifacts found. Run `notedex build` first.")
		return
	}

	if out.Index != nil {
		fmt.Println("Full-text index")
		fmt.Printf("  Documents:   %d\n", out.Index.Documents)
		fmt.Printf("  Terms:       %d\n", out.Index.Terms)
		fmt.Printf("  Tokens:      %d\n", out.Index.TotalTokens)
		if len(out.Index.ByType) > 0 {
			fmt.Printf("  By type:     %s\n", formatCounts(out.Index.ByType))
		}
		if len(out.Index.ByClassification) > 0 {
			fmt.Printf("  By class:    %s\n", formatCounts(out.Index.ByClassification))
		}
	} else {
		fmt.Println("Full-text index: not built")
	}
	fmt.Println()

	if out.Embeddings != nil {
		fmt.Println("Embeddings")
		fmt.Printf("  Vectors:     %d\n", out.Embeddings.Vectors)
		fmt.Printf("  Model:       %s\n", out.Embeddings.Model)
		fmt.Printf("  Dimensions:  %d\n", out.Embeddings.Dimensions)
	} else {
		fmt.Println("Embeddings: not built")
	}
	fmt.Println()

	if out.Graph != nil {
		fmt.Println("Link graph")
		fmt.Printf("  Nodes:       %d\n", out.Graph.Nodes)
		fmt.Printf("  Edges:       %d (%d typed)\n", out.Graph.Edges, out.Graph.TypedEdges)
		fmt.Printf("  Dangling:    %d\n", out.Graph.Dangling)
		fmt.Printf("  Orphans:     %d\n", out.Graph.Orphans)
		fmt.Printf("  Max degree:  %d\n", out.Graph.MaxDegree)
		if len(out.Graph.Hubs) > 0 {
			fmt.Println("  Hubs:")
			for i, h := range out.Graph.Hubs {
				fmt.Printf("    %d. %s (%d links)\n", i+1, h.ID, h.Degree)
			}
		}
	} else {
		fmt.Println("Link graph: not built")
	}

	if len(out.Builds) > 0 {
		fmt.Println()
		fmt.Println("Last builds")
		for _, name := range []string{journal.ArtifactIndex, journal.ArtifactEmbeddings, journal.ArtifactGraph} {
			b, ok := out.Builds[name]
			if !ok {
				continue
			}
			line := fmt.Sprintf("  %-12s %s (%s, %d processed", name+":",
				b.At.Local().Format("2006-01-02 15:04:05"), b.Duration, b.Processed)
			if b.Failed > 0 {
				line += fmt.Sprintf(", %d failed", b.Failed)
			}
			line += ")"
			if b.Note != "" {
				line += " " + b.Note
			}
			fmt.Println(line)
		}
	}
}

// formatCounts renders a count map as "key=n" pairs in key order.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
