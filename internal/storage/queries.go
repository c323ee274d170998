package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-poker-metrics/internal/model"
)

// SessionExists returns true if a session with the given hash is stored.
func (db *DB) SessionExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM sessions WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertSession inserts a session record. Uses INSERT OR REPLACE for
// idempotency.
func (db *DB) InsertSession(summary model.SessionSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO sessions(hash, source_name, parsed_at, hand_count, player_count)
		VALUES (?, ?, ?, ?, ?)`,
		summary.Hash, summary.SourceName, summary.ParsedAt, summary.HandCount, summary.PlayerCount,
	)
	return err
}

// InsertPlayerSessionStats bulk-inserts player stats in a transaction.
func (db *DB) InsertPlayerSessionStats(stats []model.PlayerSessionStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_session_stats(
			session_hash, name,
			total_calls, total_folds, total_raises, total_bets,
			hands_played, preflop_calls, preflop_raises, preflop_folds,
			shows, stands,
			buy_in, gross_profit, net_profit
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.SessionHash, s.Name,
			s.TotalCalls, s.TotalFolds, s.TotalRaises, s.TotalBets,
			s.HandsPlayed, s.PreflopCalls, s.PreflopRaises, s.PreflopFolds,
			s.Shows, s.Stands,
			s.BuyIn, s.GrossProfit, s.NetProfit,
		)
		if err != nil {
			return fmt.Errorf("insert player_session_stats for %s: %w", s.Name, err)
		}
	}
	return tx.Commit()
}

// ListSessions returns all stored sessions, newest first.
func (db *DB) ListSessions() ([]model.SessionSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source_name, parsed_at, hand_count, player_count
		FROM sessions ORDER BY parsed_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionSummary
	for rows.Next() {
		var s model.SessionSummary
		if err := rows.Scan(&s.Hash, &s.SourceName, &s.ParsedAt, &s.HandCount, &s.PlayerCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSessionByPrefix returns the session whose hash starts with prefix, or
// nil if there is no match.
func (db *DB) GetSessionByPrefix(prefix string) (*model.SessionSummary, error) {
	var s model.SessionSummary
	err := db.conn.QueryRow(`
		SELECT hash, source_name, parsed_at, hand_count, player_count
		FROM sessions WHERE hash LIKE ? || '%' LIMIT 1`, prefix).
		Scan(&s.Hash, &s.SourceName, &s.ParsedAt, &s.HandCount, &s.PlayerCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerSessionStats returns the stored stats for one session, ordered by
// net profit descending.
func (db *DB) GetPlayerSessionStats(hash string) ([]model.PlayerSessionStats, error) {
	rows, err := db.conn.Query(`
		SELECT session_hash, name,
			total_calls, total_folds, total_raises, total_bets,
			hands_played, preflop_calls, preflop_raises, preflop_folds,
			shows, stands,
			buy_in, gross_profit, net_profit
		FROM player_session_stats
		WHERE session_hash = ?
		ORDER BY net_profit DESC, name`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSessionStats
	for rows.Next() {
		var s model.PlayerSessionStats
		err := rows.Scan(
			&s.SessionHash, &s.Name,
			&s.TotalCalls, &s.TotalFolds, &s.TotalRaises, &s.TotalBets,
			&s.HandsPlayed, &s.PreflopCalls, &s.PreflopRaises, &s.PreflopFolds,
			&s.Shows, &s.Stands,
			&s.BuyIn, &s.GrossProfit, &s.NetProfit,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Overview is a high-level picture of everything stored.
type Overview struct {
	TotalSessions   int
	TotalHands      int
	UniquePlayers   int
	EarliestSession string
	LatestSession   string
}

// GetOverview returns aggregate counts across all stored sessions.
func (db *DB) GetOverview() (*Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
			COALESCE(SUM(hand_count), 0),
			COALESCE(MIN(parsed_at), ''),
			COALESCE(MAX(parsed_at), '')
		FROM sessions`).
		Scan(&ov.TotalSessions, &ov.TotalHands, &ov.EarliestSession, &ov.LatestSession)
	if err != nil {
		return nil, err
	}
	err = db.conn.QueryRow(`SELECT COUNT(DISTINCT name) FROM player_session_stats`).
		Scan(&ov.UniquePlayers)
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// GetPlayerAggregates rolls player stats up across all stored sessions,
// ordered by total net profit descending.
func (db *DB) GetPlayerAggregates() ([]model.PlayerAggregate, error) {
	rows, err := db.conn.Query(`
		SELECT name,
			COUNT(DISTINCT session_hash),
			SUM(hands_played),
			SUM(total_calls),
			SUM(total_raises),
			SUM(total_bets),
			ROUND(SUM(net_profit), 2)
		FROM player_session_stats
		GROUP BY name
		ORDER BY SUM(net_profit) DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAggregate
	for rows.Next() {
		var a model.PlayerAggregate
		err := rows.Scan(&a.Name, &a.Sessions, &a.HandsPlayed,
			&a.TotalCalls, &a.TotalRaises, &a.TotalBets, &a.NetProfit)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names plus stringified
// rows, for the sql command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
