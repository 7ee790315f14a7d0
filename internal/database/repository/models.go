package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Game represents a games row. FinishedAt is nil while the game is open or
// when it was abandoned.
type Game struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Winner        string
	UserScore     int
	OpponentScore int
}

// Move represents a moves row.
type Move struct {
	ID       string
	GameID   string
	Seq      int
	Actor    string
	Kind     string
	Word     string
	Points   int
	Letters  []string
	PlayedAt time.Time
}

// WordScore is a scored word with the game it was played in.
type WordScore struct {
	GameID string
	Word   string
	Points int
}
