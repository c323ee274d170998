package aggregator

import (
	"testing"

	"github.com/pable/go-poker-metrics/internal/model"
)

func sessionFixture() *model.SessionLog {
	return makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "bob @ b2" joined the game with a stack of 100.00.`,
		`The player "carol @ c3" joined the game with a stack of 100.00.`,
		`-- starting hand #1 (No Limit Texas Hold'em) (dealer: "alice @ a1") --`,
		`Player stacks: #1 "alice @ a1" (100.00) | #2 "bob @ b2" (100.00) | #3 "carol @ c3" (100.00)`,
		`"alice @ a1" raises to 20`,
		`"bob @ b2" calls 20`,
		`"carol @ c3" folds`,
		`Flop:  [Ks, 7d, 2c]`,
		`"alice @ a1" shows a Kd, 4h.`,
		`-- ending hand #1 --`,
		`-- starting hand #2 (No Limit Texas Hold'em) (dealer: "bob @ b2") --`,
		`Player stacks: #1 "alice @ a1" (120.00) | #2 "bob @ b2" (80.00) | #3 "carol @ c3" (100.00)`,
		`"carol @ c3" calls 10`,
		`"alice @ a1" folds`,
		`"bob @ b2" calls 10`,
		`-- ending hand #2 --`,
	)
}

func statsByName(t *testing.T, stats *model.SessionStats) map[string]model.PlayerSessionStats {
	t.Helper()
	out := make(map[string]model.PlayerSessionStats, len(stats.Players))
	for _, p := range stats.Players {
		out[p.Name] = p
	}
	return out
}

func TestAggregateMatrix(t *testing.T) {
	stats, err := Aggregate(sessionFixture())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if stats.HandCount != 2 {
		t.Errorf("HandCount = %d, want 2", stats.HandCount)
	}
	if len(stats.Players) != 3 {
		t.Fatalf("got %d players, want 3", len(stats.Players))
	}

	by := statsByName(t, stats)

	bob := by["bob"]
	if bob.TotalCalls != 2 || bob.PreflopCalls != 2 {
		t.Errorf("bob calls = %d/%d, want 2/2", bob.TotalCalls, bob.PreflopCalls)
	}
	if bob.HandsPlayed != 2 {
		t.Errorf("bob hands = %d, want 2", bob.HandsPlayed)
	}
	if bob.VPIP() != 100 {
		t.Errorf("bob VPIP = %d, want 100", bob.VPIP())
	}

	alice := by["alice"]
	if alice.TotalRaises != 1 || alice.PreflopRaises != 1 {
		t.Errorf("alice raises = %d/%d, want 1/1", alice.TotalRaises, alice.PreflopRaises)
	}
	if alice.TotalFolds != 1 || alice.PreflopFolds != 1 {
		t.Errorf("alice folds = %d/%d, want 1/1", alice.TotalFolds, alice.PreflopFolds)
	}
	if alice.Shows != 1 {
		t.Errorf("alice shows = %d, want 1", alice.Shows)
	}
	if alice.PFR() != 50 {
		t.Errorf("alice PFR = %d, want 50", alice.PFR())
	}

	carol := by["carol"]
	if carol.PreflopCalls != 1 || carol.PreflopFolds != 1 {
		t.Errorf("carol preflop = %d calls / %d folds, want 1/1", carol.PreflopCalls, carol.PreflopFolds)
	}
}

func TestAggregateBankroll(t *testing.T) {
	stats, err := Aggregate(sessionFixture())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	by := statsByName(t, stats)

	wantNet := map[string]float64{"alice": 20, "bob": -20, "carol": 0}
	var sum float64
	for name, want := range wantNet {
		p := by[name]
		if p.BuyIn != 100 {
			t.Errorf("%s buy-in = %v, want 100", name, p.BuyIn)
		}
		if p.NetProfit != want {
			t.Errorf("%s net = %v, want %v", name, p.NetProfit, want)
		}
		sum += p.NetProfit
	}
	if sum != 0 {
		t.Errorf("nets sum to %v, want zero-sum", sum)
	}
}

func TestAggregateSortsByNetProfit(t *testing.T) {
	stats, err := Aggregate(sessionFixture())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	order := make([]string, len(stats.Players))
	for i, p := range stats.Players {
		order[i] = p.Name
	}
	want := []string{"alice", "carol", "bob"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("sort order = %v, want %v", order, want)
		}
	}
}

func TestAggregateSessionHashCarried(t *testing.T) {
	stats, err := Aggregate(sessionFixture())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if stats.Hash != "testhash" {
		t.Errorf("Hash = %q", stats.Hash)
	}
	for _, p := range stats.Players {
		if p.SessionHash != "testhash" {
			t.Errorf("%s SessionHash = %q", p.Name, p.SessionHash)
		}
	}
}

func TestAggregateTimelines(t *testing.T) {
	stats, err := Aggregate(sessionFixture())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	alice := stats.Timelines["alice"]
	if len(alice) != 2 {
		t.Fatalf("alice timeline has %d snapshots, want 2", len(alice))
	}
	if alice[0].Stack != 100 || alice[1].Stack != 120 {
		t.Errorf("alice timeline = %+v, want chronological 100 then 120", alice)
	}
	if !alice[0].At.Before(alice[1].At) {
		t.Errorf("timeline not chronologically ordered: %+v", alice)
	}
}

func TestAggregateNilLog(t *testing.T) {
	if _, err := Aggregate(nil); err == nil {
		t.Fatal("Aggregate(nil) should fail")
	}
}

func TestAggregateIdlePlayerAllZeroes(t *testing.T) {
	log := makeLog(
		`The player "alice @ a1" joined the game with a stack of 100.00.`,
		`The player "dana @ d4" joined the game with a stack of 100.00.`,
		`-- starting hand #1 --`,
		`Player stacks: #1 "alice @ a1" (100.00)`,
		`"alice @ a1" calls 20`,
		`-- ending hand #1 --`,
	)
	stats, err := Aggregate(log)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	by := statsByName(t, stats)
	dana, ok := by["dana"]
	if !ok {
		t.Fatal("directory player dana missing from the matrix")
	}
	if dana.HandsPlayed != 0 || dana.TotalCalls != 0 || dana.NetProfit != -100 {
		t.Errorf("dana = %+v, want zero activity and net -100 (bought in, never cashed out)", dana)
	}
}
