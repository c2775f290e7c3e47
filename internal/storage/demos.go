package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-cs-mapviz/internal/model"
)

// DemoExists returns true if a demo with the given hash is already stored.
func (db *DB) DemoExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM demos WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDemo inserts a demo record, updating it in place when the hash is
// already stored so its tables stay attached.
func (db *DB) InsertDemo(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO demos(hash, map_name, match_date, match_type, tickrate, ct_score, t_score, rounds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			map_name = excluded.map_name, match_date = excluded.match_date,
			match_type = excluded.match_type, tickrate = excluded.tickrate,
			ct_score = excluded.ct_score, t_score = excluded.t_score, rounds = excluded.rounds`,
		summary.DemoHash, summary.MapName, summary.MatchDate, summary.MatchType,
		summary.Tickrate, summary.CTScore, summary.TScore, summary.Rounds,
	)
	return err
}

// InsertReplay stores the demo summary and every table of the replay.
func (db *DB) InsertReplay(r *model.Replay) error {
	if err := db.InsertDemo(r.Match); err != nil {
		return fmt.Errorf("insert demo: %w", err)
	}
	tables := r.Tables()
	for _, name := range model.TableNames {
		if err := db.InsertTable(r.Match.DemoHash, name, tables[name]); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}

// ListDemos returns all stored demos, newest first.
func (db *DB) ListDemos() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, map_name, match_date, match_type, tickrate, ct_score, t_score, rounds
		FROM demos ORDER BY match_date DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.DemoHash, &s.MapName, &s.MatchDate, &s.MatchType,
			&s.Tickrate, &s.CTScore, &s.TScore, &s.Rounds); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDemoByPrefix finds the first demo whose hash starts with the given prefix.
func (db *DB) GetDemoByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT hash, map_name, match_date, match_type, tickrate, ct_score, t_score, rounds
		FROM demos WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%").
		Scan(&s.DemoHash, &s.MapName, &s.MatchDate, &s.MatchType,
			&s.Tickrate, &s.CTScore, &s.TScore, &s.Rounds)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteDemo removes a demo and all of its tables.
func (db *DB) DeleteDemo(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM event_rows WHERE demo_hash = ?",
		"DELETE FROM event_tables WHERE demo_hash = ?",
		"DELETE FROM demos WHERE hash = ?",
	} {
		if _, err := tx.Exec(q, hash); err != nil {
			return fmt.Errorf("delete demo %s: %w", hash, err)
		}
	}
	return tx.Commit()
}
