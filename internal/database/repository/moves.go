package repository

import (
	"context"
	"database/sql"
	"strings"
)

// MoveRepo handles moves. Seq numbers are assigned per game on insert.
type MoveRepo struct {
	db DBTX
}

func NewMoveRepo(db DBTX) *MoveRepo { return &MoveRepo{db: db} }

// Append inserts m as the next move of its game and returns the assigned seq.
func (r *MoveRepo) Append(ctx context.Context, m Move) (int, error) {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO moves(id, game_id, seq, actor, kind, word, points, letters, played_at)
	SELECT ?, ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?
	FROM moves WHERE game_id = ?;
	`, m.ID, m.GameID, m.Actor, m.Kind, m.Word, m.Points, strings.Join(m.Letters, ","), m.PlayedAt, m.GameID)
	if err != nil {
		return 0, err
	}
	var seq int
	err = r.db.QueryRowContext(ctx, `SELECT seq FROM moves WHERE id = ?`, m.ID).Scan(&seq)
	return seq, err
}

func (r *MoveRepo) ListByGame(ctx context.Context, gameID string) ([]Move, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, game_id, seq, actor, kind, word, points, letters, played_at
	FROM moves WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Move
	for rows.Next() {
		var m Move
		var letters string
		if err := rows.Scan(&m.ID, &m.GameID, &m.Seq, &m.Actor, &m.Kind, &m.Word, &m.Points, &letters, &m.PlayedAt); err != nil {
			return nil, err
		}
		if letters != "" {
			m.Letters = strings.Split(letters, ",")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// BestWord returns the highest scoring word played by actor, or nil when
// there is none.
func (r *MoveRepo) BestWord(ctx context.Context, actor string) (*WordScore, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT game_id, word, points FROM moves
	WHERE actor = ? AND kind = 'word'
	ORDER BY points DESC, played_at ASC
	LIMIT 1`, actor)
	var w WordScore
	if err := row.Scan(&w.GameID, &w.Word, &w.Points); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// CountByKind counts moves of kind made by actor across all games.
func (r *MoveRepo) CountByKind(ctx context.Context, actor, kind string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves WHERE actor = ? AND kind = ?`, actor, kind).Scan(&n)
	return n, err
}
