package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("TODO_BACKEND", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, BackendLocal, cfg.Client.Backend)
	assert.Equal(t, "http://localhost:3001/api", cfg.Client.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, 3, cfg.Client.MaxRetries)
	require.NoError(t, cfg.ValidateServer())
	require.NoError(t, cfg.ValidateClient())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8088")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("TODO_BACKEND", "managed")
	t.Setenv("TODO_MANAGED_DATABASE_URL", "postgres://u:p@db.example.com/todos")
	t.Setenv("TODO_REQUEST_TIMEOUT", "2s")
	t.Setenv("TODO_TIMEZONE", "Asia/Tokyo")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	assert.Equal(t, BackendManaged, cfg.Client.Backend)
	assert.Equal(t, 2*time.Second, cfg.Client.RequestTimeout)
	require.NoError(t, cfg.ValidateClient())

	loc, err := cfg.Client.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoadDotEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_HOST", "")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=from_dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })

	cfgPath := filepath.Join(dir, "todo.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("db_host: db.internal\ntodo_max_retries: 5\n"), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "from_dotenv", cfg.Database.Name)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Client.MaxRetries)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=from_dotenv")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		Client:   ClientConfig{Backend: BackendManaged},
	}

	assert.True(t, errors.Is(cfg.ValidateServer(), ErrUnknownDriver))
	assert.True(t, errors.Is(cfg.ValidateClient(), ErrManagedURLMissing))

	cfg.Client.Backend = "supabase"
	assert.True(t, errors.Is(cfg.ValidateClient(), ErrUnknownBackend))

	cfg.Client = ClientConfig{Backend: BackendLocal, APIBaseURL: "http://x", Timezone: "Nowhere/City"}
	assert.Error(t, cfg.ValidateClient())
}
