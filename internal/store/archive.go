// Package store persists finished matches to SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// MemoryPath opens a private in-memory archive
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	tier        TEXT NOT NULL,
	rounds      INTEGER NOT NULL,
	player_a    TEXT NOT NULL,
	player_b    TEXT NOT NULL,
	score_a     INTEGER NOT NULL,
	score_b     INTEGER NOT NULL,
	winner      TEXT NOT NULL,
	history     TEXT NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS matches_finished_at ON matches(finished_at DESC);
`

// MatchRecord is one archived match
type MatchRecord struct {
	MatchID    string               `json:"matchId"`
	Mode       domain.Mode          `json:"mode"`
	Tier       domain.Tier          `json:"tier"`
	Rounds     int                  `json:"rounds"`
	Players    [2]string            `json:"players"`
	Scores     [2]int               `json:"scores"`
	Winner     domain.Outcome       `json:"winner"`
	History    []domain.RoundResult `json:"history,omitempty"`
	FinishedAt time.Time            `json:"finishedAt"`
}

// Archive records resolved matches. It implements app.EventSink.
type Archive struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the archive at path
func Open(path string, logger zerolog.Logger) (*Archive, error) {
	dsn := path
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		dsn = path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// SQLite has a single writer, and an in-memory database exists per
	// connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Archive{db: db, logger: logger}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

// HandleEvent archives MATCH_RESOLVED events and ignores the rest
func (a *Archive) HandleEvent(ev *domain.MatchEvent) {
	if ev.Type != domain.EventMatchResolved {
		return
	}
	payload, ok := ev.Payload.(*domain.MatchResolvedPayload)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Record(ctx, payload.State, ev.Timestamp); err != nil {
		a.logger.Warn().Err(err).Str("matchId", ev.MatchID).Msg("archive match")
		return
	}
	a.logger.Debug().Str("matchId", ev.MatchID).Msg("match archived")
}

// Record stores a finished match. Recording the same match twice keeps the
// first copy.
func (a *Archive) Record(ctx context.Context, state domain.MatchState, finishedAt time.Time) error {
	if !state.Terminal {
		return fmt.Errorf("match %s is not finished", state.MatchID)
	}
	history, err := json.Marshal(state.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO matches
		 (id, mode, tier, rounds, player_a, player_b, score_a, score_b, winner, history, finished_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		state.MatchID, state.Settings.Mode, state.Settings.Tier, state.TotalRounds,
		state.Players[domain.SeatA].Name, state.Players[domain.SeatB].Name,
		state.Scores[domain.SeatA], state.Scores[domain.SeatB],
		state.Winner, string(history), finishedAt.UnixMilli(),
	)
	return err
}

// Recent returns up to limit matches, newest first, without round history
func (a *Archive) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, mode, tier, rounds, player_a, player_b, score_a, score_b, winner, finished_at
		 FROM matches
		 ORDER BY finished_at DESC, id ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var (
			r        MatchRecord
			finished int64
		)
		if err := rows.Scan(&r.MatchID, &r.Mode, &r.Tier, &r.Rounds,
			&r.Players[0], &r.Players[1], &r.Scores[0], &r.Scores[1], &r.Winner, &finished); err != nil {
			return nil, err
		}
		r.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one archived match with its round history
func (a *Archive) Get(ctx context.Context, matchID string) (MatchRecord, error) {
	var (
		r        MatchRecord
		history  string
		finished int64
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, mode, tier, rounds, player_a, player_b, score_a, score_b, winner, history, finished_at
		 FROM matches WHERE id = ?`, matchID,
	).Scan(&r.MatchID, &r.Mode, &r.Tier, &r.Rounds,
		&r.Players[0], &r.Players[1], &r.Scores[0], &r.Scores[1], &r.Winner, &history, &finished)
	if err == sql.ErrNoRows {
		return MatchRecord{}, domain.ErrMatchNotFound
	}
	if err != nil {
		return MatchRecord{}, err
	}
	if err := json.Unmarshal([]byte(history), &r.History); err != nil {
		return MatchRecord{}, fmt.Errorf("decode history: %w", err)
	}
	r.FinishedAt = time.UnixMilli(finished).UTC()
	return r, nil
}
