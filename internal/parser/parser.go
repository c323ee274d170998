// Package parser loads poker-room hand-history logs and owns the line
// grammar: player tokens, stack amounts, hand numbers and the hand
// segmentation that the aggregator builds on.
//
// Logs are CSV files with at least an "entry" and an "at" column, ordered
// reverse-chronologically (newest row first). That storage order is
// preserved on SessionLog.Events; derivations that need chronological order
// call Forward() explicitly.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-poker-metrics/internal/model"
)

// timestampLayout matches the poker-room export format, e.g.
// "2024-03-02T04:11:09.001Z".
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Compiled patterns for the entry-text grammar. One struct so the shapes the
// engine depends on live in one place.
var patterns = struct {
	quotedPlayer *regexp.Regexp // `"name @ id"`
	handNumber   *regexp.Regexp // `#N`
	stackEntry   *regexp.Regexp // `"name @ id" (amount)` on Player stacks lines
	stackOf      *regexp.Regexp // `... stack of <amount>` on join/quit/stand lines
	adminUpdate  *regexp.Regexp // admin stack correction
}{
	quotedPlayer: regexp.MustCompile(`"([^"]+) @ ([^"]+)"`),
	handNumber:   regexp.MustCompile(`#(\d+)`),
	stackEntry:   regexp.MustCompile(`"([^"]+) @ ([^"]+)" \((\d+(?:\.\d+)?)\)`),
	stackOf:      regexp.MustCompile(`stack of (\d+(?:\.\d+)?)`),
	adminUpdate:  regexp.MustCompile(`updated the player "([^"]+) @ ([^"]+)" stack from (\d+(?:\.\d+)?) to (\d+(?:\.\d+)?)`),
}

// PlayerToken is one quoted `"name @ id"` occurrence in an entry.
type PlayerToken struct {
	Name string
	ID   string
}

// StackEntry is one player/amount pair from a "Player stacks:" line.
type StackEntry struct {
	Name   string
	ID     string
	Amount float64
}

// AdminUpdate is a parsed admin stack correction.
type AdminUpdate struct {
	Name string
	ID   string
	From float64
	To   float64
}

// LoadLog reads and parses the log file at path.
func LoadLog(path string) (*model.SessionLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// Load reads a CSV log from r. name is kept as the session's source label.
// The whole log is read into memory; callers enforce any size bound.
func Load(r io.Reader, name string) (*model.SessionLog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	events, err := parseCSV(raw)
	if err != nil {
		return nil, err
	}

	log := &model.SessionLog{
		Hash:       fmt.Sprintf("%x", sha256.Sum256(raw)),
		SourceName: name,
		Events:     events,
	}
	log.Directory = BuildDirectory(events)
	return log, nil
}

// parseCSV decodes rows into Events, locating the entry/at columns from the
// header. Files without a recognizable header fall back to column 0 = entry,
// column 1 = at. Short or ragged rows are skipped, not fatal.
func parseCSV(raw []byte) ([]model.Event, error) {
	rd := csv.NewReader(bytes.NewReader(raw))
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true

	records, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty log")
	}

	entryCol, atCol := 0, 1
	start := 0
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "entry":
			entryCol = i
			start = 1
		case "at":
			atCol = i
		}
	}

	var events []model.Event
	for _, rec := range records[start:] {
		if len(rec) <= entryCol {
			continue
		}
		at := ""
		if len(rec) > atCol {
			at = rec[atCol]
		}
		events = append(events, model.Event{At: at, Entry: rec[entryCol]})
	}
	return events, nil
}

// BuildDirectory scans every event for "joined the game" entries and records
// id → display name. Entries whose quoted token doesn't parse are skipped.
// Order doesn't matter; ids aren't expected to repeat across joins.
func BuildDirectory(events []model.Event) map[string]string {
	dir := make(map[string]string)
	for _, e := range events {
		if !strings.Contains(e.Entry, "joined the game") {
			continue
		}
		m := patterns.quotedPlayer.FindStringSubmatch(e.Entry)
		if m == nil {
			continue
		}
		dir[m[2]] = m[1]
	}
	return dir
}

// PlayerTokens returns every quoted `"name @ id"` token in entry.
func PlayerTokens(entry string) []PlayerToken {
	var toks []PlayerToken
	for _, m := range patterns.quotedPlayer.FindAllStringSubmatch(entry, -1) {
		toks = append(toks, PlayerToken{Name: m[1], ID: m[2]})
	}
	return toks
}

// FirstPlayerID returns the id of the first quoted player token, or "" if
// the entry carries none.
func FirstPlayerID(entry string) string {
	m := patterns.quotedPlayer.FindStringSubmatch(entry)
	if m == nil {
		return ""
	}
	return m[2]
}

// HandNumber extracts the numeric hand id from a starting/ending hand marker.
func HandNumber(entry string) (int, bool) {
	m := patterns.handNumber.FindStringSubmatch(entry)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// StackEntries parses every `"name @ id" (amount)` pair on a
// "Player stacks:" line.
func StackEntries(entry string) []StackEntry {
	var out []StackEntry
	for _, m := range patterns.stackEntry.FindAllStringSubmatch(entry, -1) {
		amount, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		out = append(out, StackEntry{Name: m[1], ID: m[2], Amount: amount})
	}
	return out
}

// StackOfAmount parses the amount from "... with a stack of X" join/quit/
// stand entries.
func StackOfAmount(entry string) (float64, bool) {
	m := patterns.stackOf.FindStringSubmatch(entry)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// ParseAdminUpdate parses `The admin updated the player "name @ id" stack
// from A to B` entries.
func ParseAdminUpdate(entry string) (AdminUpdate, bool) {
	m := patterns.adminUpdate.FindStringSubmatch(entry)
	if m == nil {
		return AdminUpdate{}, false
	}
	from, err1 := strconv.ParseFloat(m[3], 64)
	to, err2 := strconv.ParseFloat(m[4], 64)
	if err1 != nil || err2 != nil {
		return AdminUpdate{}, false
	}
	return AdminUpdate{Name: m[1], ID: m[2], From: from, To: to}, true
}

// ParseTimestamp parses a log timestamp. The zero time plus false means the
// value didn't match the export layout.
func ParseTimestamp(at string) (time.Time, bool) {
	t, err := time.Parse(timestampLayout, strings.TrimSpace(at))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CollectStackTimelines builds per-player stack series from "Player stacks:"
// snapshots and quit/stand payouts, in chronological order. Events with
// unparsable timestamps are dropped from the series.
func CollectStackTimelines(log *model.SessionLog) map[string][]model.PlayerSnapshot {
	timelines := make(map[string][]model.PlayerSnapshot)
	for _, e := range log.Forward() {
		entry := strings.TrimSpace(e.Entry)
		at, ok := ParseTimestamp(e.At)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(entry, "Player stacks:"):
			for _, se := range StackEntries(entry) {
				name := log.Resolve(se.ID)
				timelines[name] = append(timelines[name], model.PlayerSnapshot{At: at, Stack: se.Amount})
			}
		case strings.Contains(entry, "quits the game") || strings.Contains(entry, "stand up"):
			amount, ok := StackOfAmount(entry)
			if !ok {
				continue
			}
			id := FirstPlayerID(entry)
			if id == "" {
				continue
			}
			name := log.Resolve(id)
			timelines[name] = append(timelines[name], model.PlayerSnapshot{At: at, Stack: amount})
		}
	}
	return timelines
}
