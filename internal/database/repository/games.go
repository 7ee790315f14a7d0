package repository

import (
	"context"
	"database/sql"
	"time"
)

// GameRepo handles games.
type GameRepo struct {
	db DBTX
}

func NewGameRepo(db DBTX) *GameRepo { return &GameRepo{db: db} }

func (r *GameRepo) Insert(ctx context.Context, g Game) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO games(id, started_at) VALUES (?, ?);
	`, g.ID, g.StartedAt)
	return err
}

// Finish stores the final result. Finishing a game twice keeps the first result.
func (r *GameRepo) Finish(ctx context.Context, id, winner string, userScore, opponentScore int, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE games SET finished_at = ?, winner = ?, user_score = ?, opponent_score = ?
	WHERE id = ? AND finished_at IS NULL;
	`, at, winner, userScore, opponentScore, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *GameRepo) Get(ctx context.Context, id string) (*Game, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, started_at, finished_at, COALESCE(winner, ''), user_score, opponent_score
	FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

// Finished lists completed games, newest first.
func (r *GameRepo) Finished(ctx context.Context) ([]Game, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, started_at, finished_at, COALESCE(winner, ''), user_score, opponent_score
	FROM games WHERE finished_at IS NOT NULL
	ORDER BY finished_at DESC, started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GameRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*Game, error) {
	var g Game
	var finished sql.NullTime
	if err := s.Scan(&g.ID, &g.StartedAt, &finished, &g.Winner, &g.UserScore, &g.OpponentScore); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		g.FinishedAt = &t
	}
	return &g, nil
}
