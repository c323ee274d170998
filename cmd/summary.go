package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-poker-metrics/internal/report"
	"github.com/pable/go-poker-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all sessions stored in the database:
total session count, date range, hand totals, and a cross-session
per-player roll-up ordered by net profit.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalSessions == 0 {
		fmt.Fprintln(os.Stdout, "No sessions stored yet. Run 'pokermetrics parse <log.csv>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Sessions stored : %d\n", ov.TotalSessions)
	fmt.Fprintf(os.Stdout, "  Date range      : %s → %s\n", ov.EarliestSession, ov.LatestSession)
	fmt.Fprintf(os.Stdout, "  Total hands     : %d\n", ov.TotalHands)
	fmt.Fprintf(os.Stdout, "  Players seen    : %d\n", ov.UniquePlayers)

	aggs, err := db.GetPlayerAggregates()
	if err != nil {
		return fmt.Errorf("get player aggregates: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Players ---\n\n")
	report.PrintPlayerAggregates(os.Stdout, aggs)
	return nil
}
