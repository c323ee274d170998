package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-poker-metrics/internal/model"
)

// PrintSessionSummary prints a one-line summary header for the session.
func PrintSessionSummary(w io.Writer, s model.SessionSummary) {
	fmt.Fprintf(w, "\nSource: %s  |  Parsed: %s  |  Hands: %d  |  Players: %d  |  Hash: %s\n\n",
		s.SourceName, s.ParsedAt, s.HandCount, s.PlayerCount, shortHash(s.Hash))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintStatsTable prints the per-player action and rate statistics.
func PrintStatsTable(w io.Writer, stats []model.PlayerSessionStats) {
	table := newTable(w)
	table.Header(
		"NAME", "HANDS", "CALLS", "FOLDS", "RAISES", "BETS",
		"PF_CALL", "PF_RAISE", "PF_FOLD", "VPIP", "PFR", "AF",
		"SHOWS", "STANDS",
	)

	for i := range stats {
		s := &stats[i]
		table.Append(
			s.Name,
			strconv.Itoa(s.HandsPlayed),
			strconv.Itoa(s.TotalCalls),
			strconv.Itoa(s.TotalFolds),
			strconv.Itoa(s.TotalRaises),
			strconv.Itoa(s.TotalBets),
			strconv.Itoa(s.PreflopCalls),
			strconv.Itoa(s.PreflopRaises),
			strconv.Itoa(s.PreflopFolds),
			fmt.Sprintf("%d%%", s.VPIP()),
			fmt.Sprintf("%d%%", s.PFR()),
			FormatAF(s.AggressionFactor(), "∞"),
			strconv.Itoa(s.Shows),
			strconv.Itoa(s.Stands),
		)
	}
	table.Render()
}

// PrintBankrollTable prints the reconciled money figures per player.
func PrintBankrollTable(w io.Writer, stats []model.PlayerSessionStats) {
	table := newTable(w)
	table.Header("NAME", "BUY_IN", "GROSS", "NET")

	for i := range stats {
		s := &stats[i]
		table.Append(
			s.Name,
			fmt.Sprintf("%.2f", s.BuyIn),
			fmt.Sprintf("%.2f", s.GrossProfit),
			fmt.Sprintf("%+.2f", s.NetProfit),
		)
	}
	table.Render()
}

// PrintPlayerAggregates prints the cross-session per-player roll-up.
func PrintPlayerAggregates(w io.Writer, aggs []model.PlayerAggregate) {
	table := newTable(w)
	table.Header("NAME", "SESSIONS", "HANDS", "CALLS", "RAISES", "BETS", "AF", "NET")

	for i := range aggs {
		a := &aggs[i]
		table.Append(
			a.Name,
			strconv.Itoa(a.Sessions),
			strconv.Itoa(a.HandsPlayed),
			strconv.Itoa(a.TotalCalls),
			strconv.Itoa(a.TotalRaises),
			strconv.Itoa(a.TotalBets),
			FormatAF(a.AggressionFactor(), "∞"),
			fmt.Sprintf("%+.2f", a.NetProfit),
		)
	}
	table.Render()
}

// FormatAF renders an aggression factor, substituting the given sentinel for
// +Inf (a player who never called).
func FormatAF(af float64, infSentinel string) string {
	if math.IsInf(af, 1) {
		return infSentinel
	}
	return fmt.Sprintf("%.2f", af)
}
