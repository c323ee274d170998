package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-poker-metrics/internal/report"
	"github.com/pable/go-poker-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <hash-prefix>",
	Short: "Export a session's statistics matrix as CSV",
	Long: `Write the full per-player statistics matrix for one stored session as CSV.

The matrix carries one row per player: action counts, hands played,
preflop counts, VPIP, PFR, aggression factor, shows, stands and net
profit. A player who never called has an infinite aggression factor,
written as "Inf".

Example:
  pokermetrics export 3fa9c2 --out session.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("no session found with hash prefix %q", prefix)
	}

	stats, err := db.GetPlayerSessionStats(summary.Hash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	if exportOut == "" {
		return report.WriteMatrixCSV(os.Stdout, stats)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	defer f.Close()

	if err := report.WriteMatrixCSV(f, stats); err != nil {
		return fmt.Errorf("write matrix: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	return nil
}
