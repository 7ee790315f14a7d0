package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/wordrack/internal/database/repository"
	"github.com/jask/wordrack/internal/session"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func playGame(t *testing.T, ctx context.Context, j *Journal, start time.Time, user, cpu int, words ...session.Event) {
	t.Helper()
	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventGameStarted, At: start}))
	for i, ev := range words {
		ev.Kind = session.EventMove
		ev.At = start.Add(time.Duration(i+1) * time.Minute)
		require.NoError(t, j.Record(ctx, ev))
	}
	require.NoError(t, j.Record(ctx, session.Event{
		Kind:          session.EventGameOver,
		Actor:         session.ActorPlayer,
		Move:          session.MovePass,
		UserScore:     user,
		OpponentScore: cpu,
		Winner:        winner(user, cpu),
		At:            start.Add(time.Hour),
	}))
}

func winner(user, cpu int) string {
	switch {
	case user > cpu:
		return "USUARIO"
	case user < cpu:
		return "CPU"
	}
	return "EMPATE"
}

func TestJournalRecordsFullGame(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	j := openJournal(t)
	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventGameStarted, At: start}))
	gameID := j.CurrentGame()
	require.NotEmpty(t, gameID)

	events := []session.Event{
		{Kind: session.EventMove, Actor: session.ActorPlayer, Move: session.MoveWord, Word: "CASA", Points: 18},
		{Kind: session.EventMove, Actor: session.ActorOpponent, Move: session.MoveWord, Word: "SOL", Points: 6},
		{Kind: session.EventMove, Actor: session.ActorPlayer, Move: session.MoveExchange, Letters: []string{"LL", "E"}},
		{Kind: session.EventMove, Actor: session.ActorOpponent, Move: session.MoveExchange},
	}
	for i, ev := range events {
		ev.At = start.Add(time.Duration(i+1) * time.Minute)
		require.NoError(t, j.Record(ctx, ev))
	}
	require.NoError(t, j.Record(ctx, session.Event{
		Kind: session.EventGameOver, Actor: session.ActorPlayer, Move: session.MovePass,
		Winner: "USUARIO", UserScore: 18, OpponentScore: 6, At: start.Add(time.Hour),
	}))
	require.Empty(t, j.CurrentGame())

	moves, err := repository.NewMoveRepo(j.db).ListByGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, moves, 5)
	for i, m := range moves {
		require.Equal(t, i+1, m.Seq)
	}
	require.Equal(t, "CASA", moves[0].Word)
	require.Equal(t, 18, moves[0].Points)
	require.Equal(t, []string{"LL", "E"}, moves[2].Letters)
	require.Nil(t, moves[3].Letters)
	require.Equal(t, "pass", moves[4].Kind)

	g, err := repository.NewGameRepo(j.db).Get(ctx, gameID)
	require.NoError(t, err)
	require.NotNil(t, g.FinishedAt)
	require.Equal(t, "USUARIO", g.Winner)
	require.Equal(t, 18, g.UserScore)
	require.True(t, start.Equal(g.StartedAt))
}

func TestJournalStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openJournal(t)
	day := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)

	playGame(t, ctx, j, day, 120, 90,
		session.Event{Actor: session.ActorPlayer, Move: session.MoveWord, Word: "QUESO", Points: 32},
		session.Event{Actor: session.ActorOpponent, Move: session.MoveWord, Word: "ZORRO", Points: 40},
	)
	playGame(t, ctx, j, day.Add(24*time.Hour), 80, 140,
		session.Event{Actor: session.ActorPlayer, Move: session.MoveWord, Word: "CHAL", Points: 12},
		session.Event{Actor: session.ActorPlayer, Move: session.MovePass},
	)
	playGame(t, ctx, j, day.Add(48*time.Hour), 100, 100)

	st, err := j.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, st.Games)
	require.Equal(t, 1, st.Wins)
	require.Equal(t, 1, st.Losses)
	require.Equal(t, 1, st.Draws)
	require.Equal(t, "1-1-1", st.Record())
	require.Equal(t, 120, st.HighScore)
	require.Equal(t, "QUESO", st.BestWord)
	require.Equal(t, 32, st.BestPoints)
	require.Equal(t, 4, st.Passes, "three final passes plus one mid-game")
	require.NotNil(t, st.LastFinished)
	require.True(t, day.Add(49*time.Hour).Equal(*st.LastFinished))
}

func TestJournalOpensGameForOrphanMove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openJournal(t)

	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventMove, Actor: session.ActorPlayer, Move: session.MoveWord, Word: "PAN", Points: 5}))
	require.NotEmpty(t, j.CurrentGame())

	n, err := repository.NewGameRepo(j.db).Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestJournalRestartAbandonsOpenGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openJournal(t)

	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventGameStarted}))
	first := j.CurrentGame()
	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventGameStarted}))
	require.NotEqual(t, first, j.CurrentGame())

	st, err := j.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, st.Games)
}

func TestJournalRejectsUnknownEvent(t *testing.T) {
	t.Parallel()
	j := openJournal(t)
	require.Error(t, j.Record(context.Background(), session.Event{Kind: "bogus"}))
}

func TestJournalReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	j := openJournal(t)
	playGame(t, ctx, j, time.Now().UTC(), 10, 5,
		session.Event{Actor: session.ActorPlayer, Move: session.MoveWord, Word: "SI", Points: 2},
	)
	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventGameStarted}))

	require.NoError(t, j.Reset(ctx))
	require.Empty(t, j.CurrentGame())
	st, err := j.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, Stats{}, st)

	n, err := repository.NewGameRepo(j.db).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, j.Record(ctx, session.Event{Kind: session.EventMove, Actor: session.ActorOpponent, Move: session.MoveExchange}))
}

func TestJournalReopenKeepsHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	j, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	playGame(t, ctx, j, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 50, 40)
	require.NoError(t, j.Close())

	j, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	st, err := j.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.Wins)
}
