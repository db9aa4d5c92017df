package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/artifact"
	"github.com/seralba/notedex/internal/config"
	"github.com/seralba/notedex/internal/embedding"
	"github.com/seralba/notedex/internal/fulltext"
	"github.com/seralba/notedex/internal/graph"
	"github.com/seralba/notedex/internal/journal"
	"github.com/seralba/notedex/internal/progress"
	"github.com/seralba/notedex/internal/vault"
)

var buildCmd = &cobra.Command{
	Use:   "build [index|embeddings|graph]",
	Short: "Build or refresh the search artifacts",
	Long: `Scans the vault and brings the search artifacts up to date. With no
argument all three are built: the full-text index, the embedding store, and
the link graph. Index and embedding builds are incremental; only documents
whose content changed are reprocessed.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"index", "embeddings", "graph"},
	RunE:      runBuild,
}

func init() {
	buildCmd.Flags().Bool("force", false, "reprocess every document, ignoring content hashes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	force, _ := cmd.Flags().GetBool("force")

	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Walk the vault once; all three builders share the document set.
	docs, report, err := loadDocuments(cfg)
	if err != nil {
		return err
	}
	verbosef("Scanned %d files, loaded %d documents (%d secret, %d over size limit)\n",
		report.Scanned, report.Loaded, report.SecretSkipped, report.SkippedLarge)

	jnl, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return err
	}
	defer jnl.Close()

	if target == "" || target == "index" {
		if err := buildIndex(ctx, cfg, jnl, docs, force); err != nil {
			return err
		}
	}
	if target == "" || target == "embeddings" {
		if err := buildEmbeddings(ctx, cfg, jnl, docs, force); err != nil {
			return err
		}
	}
	if target == "" || target == "graph" {
		if err := buildGraph(ctx, cfg, jnl, docs); err != nil {
			return err
		}
	}
	return nil
}

func buildIndex(ctx context.Context, cfg *config.Config, jnl *journal.Journal, docs []vault.Document, force bool) error {
	start := time.Now()

	ix := fulltext.New()
	if _, err := loadArtifact(cfg.IndexPath(), ix); err != nil {
		return err
	}

	result := ix.Build(docs, force)
	if result.Changed() || force {
		if err := artifact.Save(cfg.IndexPath(), ix); err != nil {
			return fmt.Errorf("saving index: %w", err)
		}
	}

	recordRun(ctx, jnl, journal.Run{
		Artifact:  journal.ArtifactIndex,
		StartedAt: start,
		Duration:  time.Since(start),
		Forced:    force,
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Deleted:   result.Deleted,
	})

	fmt.Printf("Full-text index: %d processed, %d skipped, %d deleted (%d documents)\n",
		result.Processed, result.Skipped, result.Deleted, ix.Len())
	return nil
}

func buildEmbeddings(ctx context.Context, cfg *config.Config, jnl *journal.Journal, docs []vault.Document, force bool) error {
	start := time.Now()

	store := embedding.NewStore()
	if _, err := loadArtifact(cfg.EmbeddingsPath(), store); err != nil {
		return err
	}

	// The reporter starts lazily so a fully cached build prints no bar.
	var reporter progress.Reporter
	builder := &embedding.Builder{
		Backends:  buildBackends(cfg),
		BatchSize: cfg.Embedding.BatchSize,
		Checkpoint: func(s *embedding.Store) error {
			return artifact.Save(cfg.EmbeddingsPath(), s)
		},
		Progress: func(done, total int) {
			if reporter == nil {
				reporter = progress.NewReporter(false)
				reporter.Start(total, "Embedding documents")
			}
			reporter.Update(done, "")
		},
	}

	result, err := builder.Build(ctx, store, docs, force)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		return fmt.Errorf("building embeddings: %w", err)
	}

	if result.Backend == "" {
		recordRun(ctx, jnl, journal.Run{
			Artifact:  journal.ArtifactEmbeddings,
			StartedAt: start,
			Duration:  time.Since(start),
			Forced:    force,
			Note:      "no backend available",
		})
		fmt.Println("Embeddings: no backend available, skipped (full-text search still works)")
		return nil
	}

	if result.Changed() {
		if err := artifact.Save(cfg.EmbeddingsPath(), store); err != nil {
			return fmt.Errorf("saving embeddings: %w", err)
		}
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	recordRun(ctx, jnl, journal.Run{
		Artifact:  journal.ArtifactEmbeddings,
		StartedAt: start,
		Duration:  time.Since(start),
		Forced:    force,
		Processed: result.Processed,
		Skipped:   result.Skipped,
		Deleted:   result.Deleted,
		Failed:    result.Failed,
		Note:      result.Backend,
	})

	fmt.Printf("Embeddings (%s): %d processed, %d skipped, %d deleted, %d failed (%d vectors)\n",
		result.Backend, result.Processed, result.Skipped, result.Deleted, result.Failed, store.Len())
	return nil
}

// buildGraph always rebuilds from scratch: link resolution is global, so one
// edited document can change edges anywhere, and a full build is cheap.
func buildGraph(ctx context.Context, cfg *config.Config, jnl *journal.Journal, docs []vault.Document) error {
	start := time.Now()

	snap := graph.Build(docs)
	if err := artifact.Save(cfg.GraphPath(), snap); err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}

	recordRun(ctx, jnl, journal.Run{
		Artifact:  journal.ArtifactGraph,
		StartedAt: start,
		Duration:  time.Since(start),
		Processed: snap.Stats.Nodes,
		Note:      fmt.Sprintf("%d edges, %d dangling", snap.Stats.Edges, snap.Stats.Dangling),
	})

	fmt.Printf("Graph: %d nodes, %d edges (%d typed), %d dangling, %d orphans\n",
		snap.Stats.Nodes, snap.Stats.Edges, snap.Stats.TypedEdges, snap.Stats.Dangling, snap.Stats.Orphans)
	return nil
}

// recordRun logs a build in the journal. Journal failures never fail a build
// whose artifact was already written.
func recordRun(ctx context.Context, jnl *journal.Journal, run journal.Run) {
	if err := jnl.Record(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recording build run: %v\n", err)
	}
}
