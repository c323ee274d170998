package aggregator

import (
	"fmt"
	"testing"

	"github.com/pable/go-poker-metrics/internal/model"
	"github.com/pable/go-poker-metrics/internal/parser"
)

// makeLog builds a SessionLog from chronologically ordered entries, storing
// them newest-first the way real exports do.
func makeLog(entries ...string) *model.SessionLog {
	events := make([]model.Event, len(entries))
	for i, e := range entries {
		events[len(entries)-1-i] = model.Event{
			At:    fmt.Sprintf("2024-03-02T04:%02d:%02d.000Z", i/60, i%60),
			Entry: e,
		}
	}
	log := &model.SessionLog{Hash: "testhash", SourceName: "test.csv", Events: events}
	log.Directory = parser.BuildDirectory(events)
	return log
}

func TestCountActions(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`"alice @ a1" calls 20`,
		`"alice @ a1" calls 20`,
		`"bob @ b2" calls 20`,
	)
	got := CountActions(log, "calls", 0)
	if got["alice"] != 2 || got["bob"] != 1 {
		t.Errorf("CountActions = %v", got)
	}
}

func TestCountActionsSeedsDirectoryPlayers(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`"alice @ a1" calls 20`,
	)
	got := CountActions(log, "calls", 0)
	if n, ok := got["bob"]; !ok || n != 0 {
		t.Errorf("bob should be present at zero, got %v", got)
	}
}

func TestCountActionsWordCountGate(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`"alice @ a1" folds`,
		`"alice @ a1" bets 30`,
		`"alice @ a1" bets`,
	)
	// "folds" lines carry no amount, so they pass only the relaxed gate.
	if got := CountActions(log, "folds", 3); got["alice"] != 1 {
		t.Errorf("folds with gate 3 = %v, want 1", got)
	}
	if got := CountActions(log, "folds", 0); got["alice"] != 0 {
		t.Errorf("folds with default gate = %v, want 0", got)
	}
	// The bet line with an amount splits into five tokens and counts; the
	// truncated one fails the default gate.
	if got := CountActions(log, "bets", 0); got["alice"] != 1 {
		t.Errorf("bets with default gate = %v, want 1", got)
	}
}

func TestCountActionsSkipsUnknownIDs(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`"ghost @ zz" calls 20`,
	)
	got := CountActions(log, "calls", 0)
	if len(got) != 1 {
		t.Errorf("unknown id produced a key: %v", got)
	}
	if got["alice"] != 0 {
		t.Errorf("alice = %d, want 0", got["alice"])
	}
}

func TestSumActionAmounts(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`"alice @ a1" calls 20`,
		`"alice @ a1" calls 5.50`,
		`"alice @ a1" calls nonsense`,
	)
	got := SumActionAmounts(log, "calls", 0, 4)
	if got["alice"] != 25.50 {
		t.Errorf("SumActionAmounts = %v, want alice=25.50 (unparsable token skipped)", got)
	}
}

func TestCountHandsPlayed(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`The player "carol @ c3" joined the game with a stack of 100.00.`,
		`-- starting hand #1 --`,
		`Player stacks: #1 "alice @ a1" (100.00) | #2 "bob @ b2" (100.00)`,
		`-- ending hand #1 --`,
		`-- starting hand #2 --`,
		`Player stacks: #1 "alice @ a1" (90.00) | #2 "bob @ b2" (110.00)`,
		`-- ending hand #2 --`,
	)
	got := CountHandsPlayed(log)
	if got["alice"] != 2 || got["bob"] != 2 {
		t.Errorf("CountHandsPlayed = %v, want alice=2 bob=2", got)
	}
	// Never seated, never counted.
	if got["carol"] != 0 {
		t.Errorf("carol = %d, want 0", got["carol"])
	}
}

func TestCountHandsPlayedPartialPresence(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`-- starting hand #1 --`,
		`Player stacks: #1 "alice @ a1" (100.00)`,
		`-- ending hand #1 --`,
		`-- starting hand #2 --`,
		`Player stacks: #1 "alice @ a1" (90.00) | #2 "bob @ b2" (100.00)`,
		`-- ending hand #2 --`,
	)
	got := CountHandsPlayed(log)
	if got["alice"] != 2 {
		t.Errorf("alice = %d, want 2", got["alice"])
	}
	// Bob only sat for the chronologically last hand, but in the reverse
	// scan his snapshot set is closed by hand 1's ending marker and he is
	// credited again as a seen player, so he counts 2.
	if got["bob"] != 2 {
		t.Errorf("bob = %d, want 2 (closure credit plus terminal credit)", got["bob"])
	}
}

func TestCountPreflopActionHandsDedupesWithinHand(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`-- starting hand #1 --`,
		`"alice @ a1" calls 10`,
		`"alice @ a1" calls 20`,
		`-- ending hand #1 --`,
		`-- starting hand #2 --`,
		`"alice @ a1" calls 10`,
		`Flop:  [Ks, 7d, 2c]`,
		`"alice @ a1" calls 40`,
		`-- ending hand #2 --`,
	)
	hands := parser.SegmentHands(log.Forward())
	got := CountPreflopActionHands(log, hands, "calls")
	// Two calls in hand 1 count once; the postflop call in hand 2 not at all.
	if got["alice"] != 2 {
		t.Errorf("preflop call hands = %v, want alice=2", got)
	}
}

func TestCountShows(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`"alice @ a1" shows a Kd, 4h.`,
		`"alice @ a1" shows a 2c.`,
	)
	if got := CountShows(log); got["alice"] != 2 {
		t.Errorf("CountShows = %v, want alice=2", got)
	}
}

func TestCountStands(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`The player "alice @ a1" stand up with the stack of 80.00.`,
	)
	got := CountStands(log)
	if got["alice"] != 1 || got["bob"] != 0 {
		t.Errorf("CountStands = %v, want alice=1 bob=0", got)
	}
}
