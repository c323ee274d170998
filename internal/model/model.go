package model

import (
	"math"
	"time"
)

// ---- Raw log entities ----

// Event is one raw record from a hand-history log: a timestamp string and the
// free-text entry. Logs ship newest-first, so a slice of Events is in storage
// order (reverse chronological) unless stated otherwise.
type Event struct {
	At    string
	Entry string
}

// SessionLog is one fully loaded hand-history log plus the player directory
// built from its "joined the game" entries.
type SessionLog struct {
	Hash       string // sha256 of the raw file, session identity
	SourceName string
	Events     []Event           // storage order: newest first
	Directory  map[string]string // player id → display name
}

// Forward returns a copy of Events in chronological order.
func (l *SessionLog) Forward() []Event {
	out := make([]Event, len(l.Events))
	for i, e := range l.Events {
		out[len(l.Events)-1-i] = e
	}
	return out
}

// Resolve maps a player id to its display name. Ids missing from the
// directory resolve to the id itself; every consumer relies on this fallback
// behaving the same way.
func (l *SessionLog) Resolve(id string) string {
	if name, ok := l.Directory[id]; ok {
		return name
	}
	return id
}

// Hand is one segmented hand: its numeric id and the raw preflop lines
// (everything between the starting-hand marker and the flop). A hand that
// never saw a flop keeps all of its lines; a hand with no player decisions
// before the flop has an empty slice.
type Hand struct {
	ID           int
	PreflopLines []string
}

// PlayerSnapshot is one stack observation for a player, taken from a
// "Player stacks:" line or a quit/stand payout.
type PlayerSnapshot struct {
	At    time.Time
	Stack float64
}

// ---- Aggregated statistics ----

// PlayerSessionStats is one row of the per-player statistics matrix for a
// single session. Ratio statistics (VPIP, PFR, aggression factor) are
// computed from the stored counts rather than stored themselves.
type PlayerSessionStats struct {
	SessionHash string
	Name        string

	TotalCalls  int
	TotalFolds  int
	TotalRaises int
	TotalBets   int
	HandsPlayed int

	PreflopCalls  int
	PreflopRaises int
	PreflopFolds  int

	Shows  int
	Stands int

	BuyIn       float64 // joined buy-ins plus post-start admin top-ups
	GrossProfit float64
	NetProfit   float64
}

// VPIP returns the voluntarily-put-money-in-pot percentage, floored to an
// integer. Raw preflop call counts above 30/40/50/70 are corrected down by
// 1/2/3/5 before dividing; call detection is known to overcount slightly and
// the bands compensate empirically.
func (s *PlayerSessionStats) VPIP() int {
	if s.HandsPlayed == 0 {
		return 0
	}
	count := s.PreflopCalls + s.PreflopRaises
	switch {
	case s.PreflopCalls > 70:
		count -= 5
	case s.PreflopCalls > 50:
		count -= 3
	case s.PreflopCalls > 40:
		count -= 2
	case s.PreflopCalls > 30:
		count -= 1
	}
	return int(math.Floor(float64(count) / float64(s.HandsPlayed) * 100))
}

// PFR returns the preflop raise percentage, floored to an integer.
func (s *PlayerSessionStats) PFR() int {
	if s.HandsPlayed == 0 {
		return 0
	}
	return int(math.Floor(float64(s.PreflopRaises) / float64(s.HandsPlayed) * 100))
}

// AggressionFactor returns (bets+raises)/calls rounded to 2 decimals.
// A player who never called has infinite aggression; callers must treat
// +Inf as a sentinel rather than a number to render.
func (s *PlayerSessionStats) AggressionFactor() float64 {
	if s.TotalCalls == 0 {
		return math.Inf(1)
	}
	return math.Round(float64(s.TotalBets+s.TotalRaises)/float64(s.TotalCalls)*100) / 100
}

// SessionStats is the full engine output for one log.
type SessionStats struct {
	Hash      string
	HandCount int
	Players   []PlayerSessionStats
	Timelines map[string][]PlayerSnapshot // display name → stack over time
}

// SessionSummary is a lightweight record for list/show commands.
type SessionSummary struct {
	Hash        string
	SourceName  string
	ParsedAt    string
	HandCount   int
	PlayerCount int
}

// PlayerAggregate holds stats for a single player summed across all stored
// sessions.
type PlayerAggregate struct {
	Name        string
	Sessions    int
	HandsPlayed int
	TotalCalls  int
	TotalRaises int
	TotalBets   int
	NetProfit   float64
}

// AggressionFactor mirrors PlayerSessionStats.AggressionFactor for the
// cross-session roll-up.
func (a *PlayerAggregate) AggressionFactor() float64 {
	if a.TotalCalls == 0 {
		return math.Inf(1)
	}
	return math.Round(float64(a.TotalBets+a.TotalRaises)/float64(a.TotalCalls)*100) / 100
}
