package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/vault"
)

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "List documents overdue for re-verification",
	Long: `Grades every document by the age of its verified date (falling back to
created, then file mod time) against the configured thresholds and lists
the ones that need attention, most stale first.`,
	Args: cobra.NoArgs,
	RunE: runStale,
}

func init() {
	staleCmd.Flags().Bool("json", false, "output the report as JSON")
	staleCmd.Flags().String("type", "", "only report documents of this type")
	rootCmd.AddCommand(staleCmd)
}

func runStale(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	typeFilter, _ := cmd.Flags().GetString("type")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, _, err := loadDocuments(cfg)
	if err != nil {
		return err
	}

	if typeFilter != "" {
		kept := docs[:0]
		for _, d := range docs {
			if strings.EqualFold(d.Type, typeFilter) {
				kept = append(kept, d)
			}
		}
		docs = kept
	}

	report := vault.StaleReport(docs, time.Now(), vault.StaleThresholds{
		MediumDays:   cfg.Stale.MediumDays,
		HighDays:     cfg.Stale.HighDays,
		CriticalDays: cfg.Stale.CriticalDays,
	})

	if jsonOutput {
		if report == nil {
			report = []vault.StaleDoc{}
		}
		return printJSON(report)
	}

	if len(report) == 0 {
		fmt.Println("Nothing stale. All documents are within the verification thresholds.")
		return nil
	}

	fmt.Printf("%d documents need re-verification:\n\n", len(report))
	for _, d := range report {
		origin := d.ID
		if d.Type != "" {
			origin = d.ID + ", " + d.Type
		}
		fmt.Printf("  %-8s %4dd  %s (%s, by %s date)\n", d.Level, d.Days, d.Title, origin, d.Basis)
	}
	return nil
}
