package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-poker-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	sessions, err := db.ListSessions()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions stored yet. Run 'pokermetrics parse <log.csv>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-10s  %6s  %7s  %s\n",
		"HASH", "PARSED", "HANDS", "PLAYERS", "SOURCE")
	fmt.Fprintf(os.Stdout, "%-14s  %-10s  %6s  %7s  %s\n",
		"──────────────", "──────────", "──────", "───────", "──────")
	for _, s := range sessions {
		fmt.Fprintf(os.Stdout, "%-14s  %-10s  %6d  %7d  %s\n",
			s.Hash[:12], s.ParsedAt, s.HandCount, s.PlayerCount, s.SourceName)
	}
	return nil
}
