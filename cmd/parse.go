package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-poker-metrics/internal/aggregator"
	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
	"github.com/pable/go-poker-metrics/internal/report"
	"github.com/pable/go-poker-metrics/internal/storage"
)

var parseCmd = &cobra.Command{
	Use:   "parse <log.csv>",
	Short: "Parse a hand-history log and store player statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	logPath := args[0]

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", logPath)
	log, err := parser.LoadLog(logPath)
	if err != nil {
		return fmt.Errorf("parse log: %w", err)
	}

	exists, err := db.SessionExists(log.Hash)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Session %s already stored — showing cached results.\n", log.Hash[:12])
		return showByHash(db, log.Hash)
	}

	stats, err := aggregator.Aggregate(log)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	summary := model.SessionSummary{
		Hash:        log.Hash,
		SourceName:  log.SourceName,
		ParsedAt:    time.Now().UTC().Format("2006-01-02"),
		HandCount:   stats.HandCount,
		PlayerCount: len(stats.Players),
	}

	if err := db.InsertSession(summary); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if err := db.InsertPlayerSessionStats(stats.Players); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}

	report.PrintSessionSummary(os.Stdout, summary)
	report.PrintStatsTable(os.Stdout, stats.Players)
	fmt.Fprintln(os.Stdout)
	report.PrintBankrollTable(os.Stdout, stats.Players)
	return nil
}

func showByHash(db *storage.DB, hash string) error {
	summary, err := db.GetSessionByPrefix(hash)
	if err != nil || summary == nil {
		return fmt.Errorf("session not found: %s", hash)
	}
	stats, err := db.GetPlayerSessionStats(summary.Hash)
	if err != nil {
		return err
	}
	report.PrintSessionSummary(os.Stdout, *summary)
	report.PrintStatsTable(os.Stdout, stats)
	fmt.Fprintln(os.Stdout)
	report.PrintBankrollTable(os.Stdout, stats)
	return nil
}
