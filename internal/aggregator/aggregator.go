// Package aggregator turns a parsed session log into per-player statistics.
// It is a pure function of (events, directory); no state survives between
// calls, so concurrent sessions never share anything.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
)

// Aggregate computes the full per-player statistics matrix for one session.
// Every player in the directory appears in the result, with zeroes where a
// statistic never observed them.
func Aggregate(log *model.SessionLog) (*model.SessionStats, error) {
	if log == nil {
		return nil, fmt.Errorf("nil session log")
	}

	hands := parser.SegmentHands(log.Forward())

	totalCalls := CountActions(log, "calls", 0)
	totalFolds := CountActions(log, "folds", 3)
	totalRaises := CountActions(log, "raises", 0)
	totalBets := CountActions(log, "bets", 0)

	handsPlayed := CountHandsPlayed(log)
	preflopCalls := CountPreflopActionHands(log, hands, "calls")
	preflopRaises := CountPreflopActionHands(log, hands, "raises")
	preflopFolds := CountPreflopActionHands(log, hands, "folds")

	shows := CountShows(log)
	stands := CountStands(log)
	bank := Reconcile(log)

	// Union of every mapping's keys; directory players are already seeded
	// into each, the union additionally picks up fallback-resolved ids.
	names := make(map[string]struct{})
	for _, m := range []map[string]int{
		totalCalls, totalFolds, totalRaises, totalBets,
		handsPlayed, preflopCalls, preflopRaises, preflopFolds,
		shows, stands,
	} {
		for name := range m {
			names[name] = struct{}{}
		}
	}
	for name := range bank.NetProfit {
		names[name] = struct{}{}
	}

	players := make([]model.PlayerSessionStats, 0, len(names))
	for name := range names {
		players = append(players, model.PlayerSessionStats{
			SessionHash:   log.Hash,
			Name:          name,
			TotalCalls:    totalCalls[name],
			TotalFolds:    totalFolds[name],
			TotalRaises:   totalRaises[name],
			TotalBets:     totalBets[name],
			HandsPlayed:   handsPlayed[name],
			PreflopCalls:  preflopCalls[name],
			PreflopRaises: preflopRaises[name],
			PreflopFolds:  preflopFolds[name],
			Shows:         shows[name],
			Stands:        stands[name],
			BuyIn:         bank.BuyIn[name],
			GrossProfit:   bank.GrossProfit[name],
			NetProfit:     bank.NetProfit[name],
		})
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].NetProfit != players[j].NetProfit {
			return players[i].NetProfit > players[j].NetProfit
		}
		return players[i].Name < players[j].Name
	})

	return &model.SessionStats{
		Hash:      log.Hash,
		HandCount: len(hands),
		Players:   players,
		Timelines: parser.CollectStackTimelines(log),
	}, nil
}
