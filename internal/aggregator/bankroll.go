package aggregator

import (
	"math"
	"strings"

	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
)

// Bankroll holds the reconciled money figures per player (display name).
type Bankroll struct {
	BuyIn       map[string]float64 // joined buy-ins + post-start admin top-ups
	GrossProfit map[string]float64 // taken + remaining − extra
	NetProfit   map[string]float64 // gross − buy-in
}

// Reconcile computes net profit per player. Buy-ins and payouts are
// scattered across several entry shapes at different points of the
// reverse-ordered log, so the result is assembled from independent scans:
//
//	joined     — "joined the game with a stack of X", all occurrences
//	admin      — forward order, "stack from A to B" top-ups strictly after
//	             the literal "starting hand #1" marker; earlier updates are
//	             buy-in adjustments already folded into the initial stacks
//	taken      — quit/stand payout amounts, all occurrences
//	remaining  — the first "Player stacks:" line in storage order, i.e. the
//	             final snapshot
//	extra      — quit/stand payouts seen before that snapshot in storage
//	             order (chronologically after it); backs out the overlap
//	             between taken and remaining
//
// Every accumulation is rounded to 2 decimals to keep currency sums stable.
func Reconcile(log *model.SessionLog) Bankroll {
	joined := joinedBuyIns(log)
	admin := adminTopUps(log)
	taken := quitStandPayouts(log, false)
	remaining := finalStacks(log)
	extra := quitStandPayouts(log, true)

	buyIn := seedNamesFloat(log)
	for name := range unionKeys(buyIn, joined, admin) {
		buyIn[name] = round2(joined[name] + admin[name])
	}

	gross := seedNamesFloat(log)
	for name := range unionKeys(gross, taken, remaining, extra) {
		gross[name] = round2(taken[name] + remaining[name] - extra[name])
	}

	net := seedNamesFloat(log)
	for name := range unionKeys(net, gross, buyIn) {
		net[name] = round2(gross[name] - buyIn[name])
	}

	return Bankroll{BuyIn: buyIn, GrossProfit: gross, NetProfit: net}
}

// joinedBuyIns sums the stack amounts players brought in, keyed by name.
func joinedBuyIns(log *model.SessionLog) map[string]float64 {
	sums := make(map[string]float64)
	for _, e := range log.Events {
		if !strings.Contains(e.Entry, "joined the game") {
			continue
		}
		amount, ok := parser.StackOfAmount(e.Entry)
		if !ok {
			continue
		}
		id := parser.FirstPlayerID(e.Entry)
		if id == "" {
			continue
		}
		name := log.Resolve(id)
		sums[name] = round2(sums[name] + amount)
	}
	return sums
}

// adminTopUps sums positive admin stack corrections made after the game's
// first hand started. The gate is a one-way latch on the literal
// "starting hand #1" marker in forward order; it never resets mid-scan.
func adminTopUps(log *model.SessionLog) map[string]float64 {
	sums := make(map[string]float64)
	gameStarted := false
	for _, e := range log.Forward() {
		if !gameStarted {
			if strings.Contains(e.Entry, "starting hand #1") {
				gameStarted = true
			}
			continue
		}
		upd, ok := parser.ParseAdminUpdate(e.Entry)
		if !ok {
			continue
		}
		delta := upd.To - upd.From
		if delta <= 0 {
			continue
		}
		name := log.Resolve(upd.ID)
		sums[name] = round2(sums[name] + delta)
	}
	return sums
}

// quitStandPayouts sums quit/stand payout amounts in storage order. With
// untilSnapshot set the scan stops at the first "Player stacks:" line — a
// one-way latch that restricts the sum to payouts newer than the final
// snapshot.
func quitStandPayouts(log *model.SessionLog, untilSnapshot bool) map[string]float64 {
	sums := make(map[string]float64)
	for _, e := range log.Events {
		entry := strings.TrimSpace(e.Entry)
		if strings.HasPrefix(entry, "Player stacks:") {
			if untilSnapshot {
				break
			}
			continue
		}
		if !strings.Contains(entry, "quits the game") && !strings.Contains(entry, "stand up") {
			continue
		}
		amount, ok := parser.StackOfAmount(entry)
		if !ok {
			continue
		}
		id := parser.FirstPlayerID(entry)
		if id == "" {
			continue
		}
		name := log.Resolve(id)
		sums[name] = round2(sums[name] + amount)
	}
	return sums
}

// finalStacks returns the stacks from the first "Player stacks:" line in
// storage order — the most recent snapshot, since the log is newest-first.
func finalStacks(log *model.SessionLog) map[string]float64 {
	stacks := make(map[string]float64)
	for _, e := range log.Events {
		entry := strings.TrimSpace(e.Entry)
		if !strings.HasPrefix(entry, "Player stacks:") {
			continue
		}
		for _, se := range parser.StackEntries(entry) {
			stacks[log.Resolve(se.ID)] = round2(se.Amount)
		}
		break
	}
	return stacks
}

func unionKeys(maps ...map[string]float64) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, m := range maps {
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	return keys
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
