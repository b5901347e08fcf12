//go:build unit || e2e

package dbtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by a pool, a connection or a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CountRows counts rows of table matching an optional where clause.
func CountRows(t *testing.T, db DBLike, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

func CountArchivedSpins(t *testing.T, db DBLike, playerID uuid.UUID) int {
	t.Helper()
	return CountRows(t, db, "spin_records", "player_id = $1", playerID)
}

// ExpireIdempotencyKey backdates a key so the next request may claim it again.
func ExpireIdempotencyKey(t *testing.T, db DBLike, key, userID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		"UPDATE idempotency_keys SET expires_at = now() - interval '1 minute' WHERE key = $1 AND user_id = $2",
		key, userID)
	require.NoError(t, err)
}

// truncateStmt caches the TRUNCATE for the first pool it sees; every suite
// in a test binary shares one schema.
var truncateStmt struct {
	once sync.Once
	sql  string
	err  error
}

// ResetDB empties every table in the public schema.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	truncateStmt.once.Do(func() {
		tables, err := publicTables(ctx, pool)
		switch {
		case err != nil:
			truncateStmt.err = err
		case len(tables) == 0:
			truncateStmt.err = errors.New("no tables in public schema")
		default:
			truncateStmt.sql = "TRUNCATE " + strings.Join(tables, ", ") + " CASCADE"
		}
	})
	if truncateStmt.err != nil {
		return fmt.Errorf("build truncate statement: %w", truncateStmt.err)
	}

	_, err := pool.Exec(ctx, truncateStmt.sql)
	return err
}

func publicTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT 'public.' || quote_ident(tablename) FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
