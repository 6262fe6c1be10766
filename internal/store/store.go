// Package store handles SQLite persistence.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store keeps profiles, last sessions, and per-game rows in SQLite.
type Store struct {
	db *sql.DB
}

var _ profile.Repository = (*Store)(nil)

// timeLayout keeps stored timestamps sortable as text.
const timeLayout = time.RFC3339Nano

// Open opens or creates the SQLite database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Profiles and sessions are stored as the same JSON documents the file
// repository writes; games are also flattened into rows for querying.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	player_id    TEXT PRIMARY KEY,
	rating       REAL NOT NULL,
	data         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	last_updated TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	player_id  TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS games (
	id               TEXT PRIMARY KEY,
	player_id        TEXT NOT NULL,
	seq              INTEGER NOT NULL,
	played_at        TEXT NOT NULL,
	result           TEXT NOT NULL,
	accuracy         REAL NOT NULL,
	difficulty_level INTEGER NOT NULL,
	moves_played     INTEGER NOT NULL,
	blunders         INTEGER NOT NULL,
	mistakes         INTEGER NOT NULL,
	rating_after     REAL NOT NULL,
	UNIQUE (player_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_games_player_played ON games(player_id, played_at);
`

type closer interface{ Close() error }

// closeQuietly is for cleanup paths where a close error cannot change the
// outcome.
func closeQuietly(c closer) {
	_ = c.Close()
}

// document reads the JSON body stored for playerID in table.
func (s *Store) document(ctx context.Context, table, playerID string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM "+table+" WHERE player_id = ?", playerID).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", profile.ErrNotFound, playerID)
	case err != nil:
		return nil, fmt.Errorf("read %s row: %w", table, err)
	}
	return []byte(data), nil
}

// Load reads a player's profile.
func (s *Store) Load(ctx context.Context, playerID string) (*profile.Profile, error) {
	data, err := s.document(ctx, "profiles", playerID)
	if err != nil {
		return nil, err
	}
	return profile.Decode(data, playerID)
}

// Save upserts the profile and appends game rows not stored yet.
func (s *Store) Save(ctx context.Context, p *profile.Profile) (err error) {
	if err := profile.ValidatePlayerID(p.PlayerID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := profile.Encode(&buf, p); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (player_id, rating, data, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
			rating = excluded.rating,
			data = excluded.data,
			last_updated = excluded.last_updated`,
		p.PlayerID,
		p.Rating,
		buf.String(),
		p.CreatedAt.UTC().Format(timeLayout),
		p.LastUpdated.UTC().Format(timeLayout),
	); err != nil {
		return err
	}

	var stored int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE player_id = ?`, p.PlayerID).Scan(&stored); err != nil {
		return err
	}
	if stored < len(p.GameHistory) {
		if err = insertGames(ctx, tx, p, stored); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertGames(ctx context.Context, tx *sql.Tx, p *profile.Profile, from int) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO games (id, player_id, seq, played_at, result, accuracy, difficulty_level, moves_played, blunders, mistakes, rating_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer closeQuietly(stmt)
	// Rating history starts with the initial rating, so game i ends at i+1.
	offset := len(p.RatingHistory) - len(p.GameHistory)
	for i := from; i < len(p.GameHistory); i++ {
		g := p.GameHistory[i]
		ratingAfter := p.Rating
		if idx := i + offset; offset >= 0 && idx < len(p.RatingHistory) {
			ratingAfter = p.RatingHistory[idx]
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			p.PlayerID,
			i,
			g.Date.UTC().Format(timeLayout),
			string(g.Result),
			g.Accuracy,
			g.DifficultyLevel,
			g.MovesPlayed,
			g.Blunders,
			g.Mistakes,
			ratingAfter,
		); err != nil {
			return err
		}
	}
	return nil
}

// LoadSession reads the player's last finished session.
func (s *Store) LoadSession(ctx context.Context, playerID string) (*stats.Stats, error) {
	data, err := s.document(ctx, "sessions", playerID)
	if err != nil {
		return nil, err
	}
	return profile.DecodeSession(data, playerID)
}

// SaveSession replaces the player's last finished session.
func (s *Store) SaveSession(ctx context.Context, st *stats.Stats) error {
	if err := profile.ValidatePlayerID(st.PlayerID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := profile.EncodeSession(&buf, st); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (player_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		st.PlayerID, buf.String(), st.LastUpdated.UTC().Format(timeLayout))
	return err
}

// List returns stored player ids in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player_id FROM profiles ORDER BY player_id`)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// GameRow is a stored game with its id and resulting rating.
type GameRow struct {
	ID          string
	Record      model.GameRecord
	RatingAfter float64
}

// ListGames returns a player's games filtered by stats config, oldest first.
func (s *Store) ListGames(ctx context.Context, cfg model.StatsConfig) ([]GameRow, error) {
	clauses := []string{"player_id = ?"}
	args := []any{cfg.PlayerID}
	if cfg.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, played_at, result, accuracy, difficulty_level, moves_played, blunders, mistakes, rating_after
		FROM games
		WHERE %s
		ORDER BY seq ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	var games []GameRow
	for rows.Next() {
		var row GameRow
		var playedAt, result string
		if err := rows.Scan(&row.ID, &playedAt, &result, &row.Record.Accuracy, &row.Record.DifficultyLevel,
			&row.Record.MovesPlayed, &row.Record.Blunders, &row.Record.Mistakes, &row.RatingAfter); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, playedAt)
		if err != nil {
			return nil, err
		}
		row.Record.Date = parsed
		row.Record.Result = model.GameResult(result)
		games = append(games, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}
	return games, nil
}
