package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunMigrationsOnEmptyDatabase(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "history.db")

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	require.Zero(t, version)
	require.False(t, dirty)

	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path), "second run is a no-op")

	version, dirty, err = SchemaVersion(path)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, table := range []string{"games", "moves"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		require.Zero(t, n)
	}
}

func TestForeignKeysAndCascade(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, RunMigrations(path))
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	now := Now()

	_, err = db.ExecContext(ctx, `INSERT INTO moves(id, game_id, seq, actor, kind, played_at) VALUES ('m0', 'missing', 1, 'player', 'pass', ?)`, now)
	require.Error(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO games(id, started_at) VALUES ('g1', ?)`, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO moves(id, game_id, seq, actor, kind, played_at) VALUES ('m1', 'g1', 1, 'player', 'pass', ?)`, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO moves(id, game_id, seq, actor, kind, played_at) VALUES ('m2', 'g1', 2, 'cpu', 'pass', ?)`, now)
	require.Error(t, err, "actor is constrained")

	_, err = db.ExecContext(ctx, `DELETE FROM games WHERE id = 'g1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves`).Scan(&n))
	require.Zero(t, n)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, RunMigrations(path))
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO games(id, started_at) VALUES ('g1', ?)`, Now()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO games(id, started_at) VALUES ('g1', ?)`, Now())
		return err
	})
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n))
	require.Zero(t, n)
}
