package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-poker-metrics/internal/model"
)

// MatrixHeader is the column set of the export matrix, one row per player.
var MatrixHeader = []string{
	"Player",
	"Total Calls",
	"Total Folds",
	"Total Raises",
	"Total Bets",
	"Total Hands",
	"Preflop Calls",
	"Preflop Raises",
	"Preflop Folds",
	"VPIP",
	"PFR",
	"Aggression Factor",
	"Number of Shows",
	"Number of Stands",
	"Net Profit",
}

// MatrixRows materializes the matrix cells for the given stats, in order.
// The aggression factor's +Inf sentinel is written as "Inf" so the output
// stays machine-readable.
func MatrixRows(stats []model.PlayerSessionStats) [][]string {
	rows := make([][]string, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.TotalCalls),
			strconv.Itoa(s.TotalFolds),
			strconv.Itoa(s.TotalRaises),
			strconv.Itoa(s.TotalBets),
			strconv.Itoa(s.HandsPlayed),
			strconv.Itoa(s.PreflopCalls),
			strconv.Itoa(s.PreflopRaises),
			strconv.Itoa(s.PreflopFolds),
			strconv.Itoa(s.VPIP()),
			strconv.Itoa(s.PFR()),
			FormatAF(s.AggressionFactor(), "Inf"),
			strconv.Itoa(s.Shows),
			strconv.Itoa(s.Stands),
			fmt.Sprintf("%.2f", s.NetProfit),
		})
	}
	return rows
}

// WriteMatrixCSV writes the full statistics matrix as delimited text.
func WriteMatrixCSV(w io.Writer, stats []model.PlayerSessionStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MatrixHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range MatrixRows(stats) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
