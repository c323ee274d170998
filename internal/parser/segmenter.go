package parser

import (
	"strings"

	"github.com/pable/go-poker-metrics/internal/model"
)

// SegmentHands partitions a chronologically ordered event sequence (see
// SessionLog.Forward) into hands. A hand opens on "-- starting hand #N" and
// closes on the next starting marker or end of stream. Lines between the
// start marker and the first "Flop:" marker are accumulated as the hand's
// preflop segment; once the flop is seen the latch stays off until the next
// hand, so turn/river annotations can't reopen it.
//
// Structural anomalies are tolerated: a flop marker outside any hand is
// ignored, a start marker without a parsable number closes the previous hand
// and opens nothing, and a still-open hand is flushed at end of stream.
func SegmentHands(events []model.Event) []model.Hand {
	var hands []model.Hand
	var cur model.Hand
	open := false
	inPreflop := false

	for _, e := range events {
		entry := strings.TrimSpace(e.Entry)
		switch {
		case strings.HasPrefix(entry, "-- starting hand"):
			if open {
				hands = append(hands, cur)
			}
			open = false
			inPreflop = false
			if id, ok := HandNumber(entry); ok {
				cur = model.Hand{ID: id}
				open = true
				inPreflop = true
			}
		case strings.Contains(entry, "Flop:"):
			inPreflop = false
		default:
			if open && inPreflop {
				cur.PreflopLines = append(cur.PreflopLines, entry)
			}
		}
	}
	if open {
		hands = append(hands, cur)
	}
	return hands
}
