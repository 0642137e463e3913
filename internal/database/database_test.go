package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/testutil"
)

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "todos.db")

	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.DB().Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, 1, version)

	var count int
	require.NoError(t, second.DB().Get(&count, "SELECT COUNT(*) FROM todos"))
	assert.Zero(t, count)
}

func TestSQLiteHealth(t *testing.T) {
	t.Parallel()

	db, err := NewSQLite(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	defer db.Close()

	stats := db.Health()
	assert.Equal(t, "up", stats["status"])
}

func TestPostgresAutoMigrateAndHealth(t *testing.T) {
	url := testutil.StartPostgres(t)

	db, err := NewPostgresDSN(url)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.AutoMigrate())
	assert.True(t, db.DB().Migrator().HasTable("todos"))
	assert.Equal(t, "up", db.Health()["status"])
}

func TestPoolMigrate(t *testing.T) {
	url := testutil.StartPostgres(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.Migrate(ctx))
	// A second run must skip the already recorded file.
	require.NoError(t, pool.Migrate(ctx))

	var applied int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
	assert.Equal(t, "up", pool.Health()["status"])
}
