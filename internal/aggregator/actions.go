package aggregator

import (
	"strconv"
	"strings"

	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
)

// DefaultMinWords is the word-count gate for action lines. Genuine action
// entries (`"name @ id" calls 20`) split into at least five tokens; "folds"
// lines carry no amount and historically use a gate of three.
const DefaultMinWords = 5

// seedNames returns a map with every directory player present at zero, so
// statistics never have sparse holes when merged into the matrix.
func seedNames(log *model.SessionLog) map[string]int {
	out := make(map[string]int, len(log.Directory))
	for _, name := range log.Directory {
		out[name] = 0
	}
	return out
}

func seedNamesFloat(log *model.SessionLog) map[string]float64 {
	out := make(map[string]float64, len(log.Directory))
	for _, name := range log.Directory {
		out[name] = 0
	}
	return out
}

// actingPlayerID extracts the acting player's id from an action line: the
// third whitespace-delimited token with its trailing punctuation character
// stripped. For `"alice @ a1" calls 20` that token is `a1"`. Multi-word
// display names break this extraction, which is why callers only attribute
// to ids the directory knows about.
func actingPlayerID(fields []string) string {
	tok := fields[2]
	return tok[:len(tok)-1]
}

// CountActions counts, per player, the events whose entry contains keyword
// and splits into at least minWords tokens (0 means DefaultMinWords). Scans
// in storage order. Events attributed to ids missing from the directory are
// skipped.
func CountActions(log *model.SessionLog, keyword string, minWords int) map[string]int {
	if minWords == 0 {
		minWords = DefaultMinWords
	}
	result := seedNames(log)
	for _, e := range log.Events {
		if !strings.Contains(e.Entry, keyword) {
			continue
		}
		fields := strings.Fields(e.Entry)
		if len(fields) < minWords || len(fields) < 3 {
			continue
		}
		id := actingPlayerID(fields)
		name, ok := log.Directory[id]
		if !ok {
			continue
		}
		result[name]++
	}
	return result
}

// SumActionAmounts is CountActions in amount mode: instead of incrementing a
// counter it parses the token at amountIndex as a decimal and accumulates the
// 2-decimal-rounded value. Tokens that fail to parse are skipped silently.
func SumActionAmounts(log *model.SessionLog, keyword string, minWords, amountIndex int) map[string]float64 {
	if minWords == 0 {
		minWords = DefaultMinWords
	}
	result := seedNamesFloat(log)
	for _, e := range log.Events {
		if !strings.Contains(e.Entry, keyword) {
			continue
		}
		fields := strings.Fields(e.Entry)
		if len(fields) < minWords || len(fields) < 3 || amountIndex >= len(fields) {
			continue
		}
		id := actingPlayerID(fields)
		name, ok := log.Directory[id]
		if !ok {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimRight(fields[amountIndex], "."), 64)
		if err != nil {
			continue
		}
		result[name] = round2(result[name] + round2(amount))
	}
	return result
}

// CountHandsPlayed counts hands of presence per player. Scanning in storage
// order, each "Player stacks:" line opens a set of current players which the
// next "-- ending hand" marker closes out, crediting one hand to each member.
// Because the log is reverse-ordered, the chronologically last hand's set is
// never closed by a later ending marker, so every player seen in any snapshot
// gets one extra hand after the scan. That is a property of the log's
// ordering, not a heuristic.
func CountHandsPlayed(log *model.SessionLog) map[string]int {
	counts := make(map[string]int)
	seen := make(map[string]struct{})
	var current []string

	for _, e := range log.Events {
		entry := strings.TrimSpace(e.Entry)
		switch {
		case strings.HasPrefix(entry, "Player stacks:"):
			current = current[:0]
			for _, tok := range parser.PlayerTokens(entry) {
				current = append(current, tok.ID)
				seen[log.Resolve(tok.ID)] = struct{}{}
			}
		case strings.HasPrefix(entry, "-- ending hand") && len(current) > 0:
			for _, id := range current {
				counts[log.Resolve(id)]++
			}
			current = current[:0]
		}
	}

	for name := range seen {
		counts[name]++
	}

	result := seedNames(log)
	for name, c := range counts {
		result[name] = c
	}
	return result
}

// CountPreflopActionHands counts, per player, the number of distinct hands in
// which the player performed the keyword action before the flop. Built on
// the hand segmenter; a player repeating the action within one hand's preflop
// segment still counts that hand once.
func CountPreflopActionHands(log *model.SessionLog, hands []model.Hand, keyword string) map[string]int {
	handSets := make(map[string]map[int]struct{})
	for _, h := range hands {
		counted := make(map[string]struct{})
		for _, line := range h.PreflopLines {
			if !strings.Contains(line, keyword) {
				continue
			}
			id := parser.FirstPlayerID(line)
			if id == "" {
				continue
			}
			if _, dup := counted[id]; dup {
				continue
			}
			counted[id] = struct{}{}
			name := log.Resolve(id)
			if handSets[name] == nil {
				handSets[name] = make(map[int]struct{})
			}
			handSets[name][h.ID] = struct{}{}
		}
	}

	result := seedNames(log)
	for name, set := range handSets {
		result[name] = len(set)
	}
	return result
}

// CountShows counts showdown reveals ("shows" entries) per player.
func CountShows(log *model.SessionLog) map[string]int {
	return countQuotedOccurrences(log, "shows")
}

// CountStands counts stand-up events per player.
func CountStands(log *model.SessionLog) map[string]int {
	return countQuotedOccurrences(log, "stand")
}

func countQuotedOccurrences(log *model.SessionLog, keyword string) map[string]int {
	result := seedNames(log)
	for _, e := range log.Events {
		if !strings.Contains(e.Entry, keyword) {
			continue
		}
		id := parser.FirstPlayerID(e.Entry)
		if id == "" {
			continue
		}
		result[log.Resolve(id)]++
	}
	return result
}
