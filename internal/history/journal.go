// Package history keeps a local journal of played games. It is write-mostly:
// the session reports confirmed events and the journal never feeds snapshots
// back into play.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/wordrack/internal/database"
	"github.com/jask/wordrack/internal/database/repository"
	"github.com/jask/wordrack/internal/session"
)

// Journal records session events into sqlite. Record may be called from
// several goroutines.
type Journal struct {
	db    *sql.DB
	games *repository.GameRepo
	moves *repository.MoveRepo
	log   zerolog.Logger

	mu     sync.Mutex
	gameID string
}

// Open migrates and opens the journal at path.
func Open(path string, log zerolog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: mkdir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	return New(db, log), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, log zerolog.Logger) *Journal {
	return &Journal{
		db:    db,
		games: repository.NewGameRepo(db),
		moves: repository.NewMoveRepo(db),
		log:   log.With().Str("component", "history").Logger(),
	}
}

func (j *Journal) Close() error { return j.db.Close() }

// CurrentGame returns the ID of the game being recorded, if any.
func (j *Journal) CurrentGame() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.gameID
}

func (j *Journal) Record(ctx context.Context, ev session.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	at := ev.At
	if at.IsZero() {
		at = database.Now()
	}
	at = at.UTC()

	switch ev.Kind {
	case session.EventGameStarted:
		if j.gameID != "" {
			j.log.Info().Str("game", j.gameID).Msg("abandoning unfinished game")
		}
		return j.startGame(ctx, at)

	case session.EventMove:
		if err := j.ensureGame(ctx, at); err != nil {
			return err
		}
		seq, err := j.moves.Append(ctx, moveRow(j.gameID, ev, at))
		if err != nil {
			return fmt.Errorf("history: append move: %w", err)
		}
		j.log.Debug().Str("game", j.gameID).Int("seq", seq).Str("actor", string(ev.Actor)).Str("kind", string(ev.Move)).Msg("move recorded")
		return nil

	case session.EventGameOver:
		if err := j.ensureGame(ctx, at); err != nil {
			return err
		}
		gameID := j.gameID
		err := database.WithTx(ctx, j.db, func(tx *sql.Tx) error {
			if ev.Move != "" {
				if _, err := repository.NewMoveRepo(tx).Append(ctx, moveRow(gameID, ev, at)); err != nil {
					return fmt.Errorf("append final move: %w", err)
				}
			}
			if _, err := repository.NewGameRepo(tx).Finish(ctx, gameID, ev.Winner, ev.UserScore, ev.OpponentScore, at); err != nil {
				return fmt.Errorf("finish game: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		j.gameID = ""
		j.log.Info().Str("game", gameID).Str("winner", ev.Winner).Msg("game finished")
		return nil
	}
	return fmt.Errorf("history: unknown event kind %q", ev.Kind)
}

func (j *Journal) startGame(ctx context.Context, at time.Time) error {
	id := uuid.NewString()
	if err := j.games.Insert(ctx, repository.Game{ID: id, StartedAt: at}); err != nil {
		return fmt.Errorf("history: insert game: %w", err)
	}
	j.gameID = id
	return nil
}

// ensureGame opens a game for events that arrive before any start event,
// e.g. after the journal was reset mid-game.
func (j *Journal) ensureGame(ctx context.Context, at time.Time) error {
	if j.gameID != "" {
		return nil
	}
	return j.startGame(ctx, at)
}

func moveRow(gameID string, ev session.Event, at time.Time) repository.Move {
	return repository.Move{
		ID:       uuid.NewString(),
		GameID:   gameID,
		Actor:    string(ev.Actor),
		Kind:     string(ev.Move),
		Word:     ev.Word,
		Points:   ev.Points,
		Letters:  ev.Letters,
		PlayedAt: at,
	}
}

// Stats summarises finished games.
type Stats struct {
	Games        int
	Wins         int
	Losses       int
	Draws        int
	HighScore    int
	BestWord     string
	BestPoints   int
	Passes       int
	Exchanges    int
	LastFinished *time.Time
}

// Record renders wins-losses-draws.
func (s Stats) Record() string {
	return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Draws)
}

func (j *Journal) Stats(ctx context.Context) (Stats, error) {
	games, err := j.games.Finished(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("history: list games: %w", err)
	}
	var st Stats
	for _, g := range games {
		st.Games++
		switch {
		case g.UserScore > g.OpponentScore:
			st.Wins++
		case g.UserScore < g.OpponentScore:
			st.Losses++
		default:
			st.Draws++
		}
		st.HighScore = max(st.HighScore, g.UserScore)
	}
	if len(games) > 0 {
		st.LastFinished = games[0].FinishedAt
	}

	best, err := j.moves.BestWord(ctx, string(session.ActorPlayer))
	if err != nil {
		return Stats{}, fmt.Errorf("history: best word: %w", err)
	}
	if best != nil {
		st.BestWord, st.BestPoints = best.Word, best.Points
	}
	if st.Passes, err = j.moves.CountByKind(ctx, string(session.ActorPlayer), string(session.MovePass)); err != nil {
		return Stats{}, fmt.Errorf("history: count passes: %w", err)
	}
	if st.Exchanges, err = j.moves.CountByKind(ctx, string(session.ActorPlayer), string(session.MoveExchange)); err != nil {
		return Stats{}, fmt.Errorf("history: count exchanges: %w", err)
	}
	return st, nil
}

// Reset wipes the journal. It keeps the schema intact so recording can continue.
func (j *Journal) Reset(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := database.WithTx(ctx, j.db, func(tx *sql.Tx) error {
		for _, t := range []string{"moves", "games"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	j.gameID = ""
	_, _ = j.db.ExecContext(ctx, "VACUUM")
	return nil
}
