// Package history keeps a local record of finished games in an embedded
// SQLite database. It is informational only: nothing in the session
// protocol reads it back.
package history

import (
	"context"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	room TEXT NOT NULL,
	role TEXT NOT NULL,
	result TEXT NOT NULL,
	finished_at TIMESTAMP NOT NULL
);`

// Game is one finished game as stored locally.
type Game struct {
	ID         int64     `db:"id" json:"id"`
	Room       string    `db:"room" json:"room"`
	Role       string    `db:"role" json:"role"`
	Result     string    `db:"result" json:"result"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// Store is a sqlite-backed game log.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create games table: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one finished game.
func (s *Store) Record(ctx context.Context, g Game) error {
	query := `INSERT INTO games (room, role, result, finished_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, g.Room, g.Role, g.Result, g.FinishedAt); err != nil {
		return fmt.Errorf("failed to record game: %w", err)
	}
	return nil
}

// Recent returns up to limit games, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Game, error) {
	games := []Game{}
	query := `SELECT id, room, role, result, finished_at FROM games ORDER BY finished_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &games, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
