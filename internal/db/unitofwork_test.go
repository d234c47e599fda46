package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteUnitOfWork {
	t.Helper()
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewSQLiteUnitOfWork(database)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	uow := openTestDB(t)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
			"u1", "alice", "alice@example.com", "2026-01-01T00:00:00Z")
		return err
	})
	require.NoError(t, err)

	var count int
	row := uow.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	uow := openTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
			"u1", "alice", "alice@example.com", "2026-01-01T00:00:00Z"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	row := uow.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated once; a second pass must not fail.
	require.NoError(t, Migrate(database))
}
