package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-poker-metrics/internal/report"
	"github.com/pable/go-poker-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored session stats by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetSessionByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No session found with hash prefix %q\n", prefix)
		return nil
	}

	stats, err := db.GetPlayerSessionStats(summary.Hash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintSessionSummary(os.Stdout, *summary)
	report.PrintStatsTable(os.Stdout, stats)
	fmt.Fprintln(os.Stdout)
	report.PrintBankrollTable(os.Stdout, stats)
	return nil
}
