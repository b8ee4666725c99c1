// Package storetest provides a migrated SQLite database and an in-memory
// Redis for tests.
package storetest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/userdesk/user-service/internal/migrate"
	"github.com/userdesk/user-service/internal/repository"
)

// NewDB opens a fresh SQLite file under t.TempDir and applies all migrations.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, "sqlite3", filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner, err := migrate.New(db, "sqlite3", Logger())
	require.NoError(t, err)
	require.NoError(t, runner.Up(ctx))
	return db
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewRedis starts an in-memory Redis server and returns a client for it.
// Both are shut down when the test ends.
func NewRedis(t testing.TB) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, srv
}
