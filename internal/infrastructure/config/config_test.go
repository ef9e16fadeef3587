package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "Store API", cfg.ProjectName)
	assert.Equal(t, "", cfg.RootPath)
	assert.Equal(t, "mongodb://localhost:27017/tdd_store", cfg.Database.URL)
	assert.Equal(t, "tdd_store", cfg.Database.Name)
	assert.Equal(t, "mongo", cfg.Database.Backend)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "mongodb://db:27017/store_test")
	t.Setenv("ROOT_PATH", "/api/")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "store_test", cfg.Database.Name)
	assert.Equal(t, "/api", cfg.RootPath)
	assert.Equal(t, "memory", cfg.Database.Backend)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROJECT_NAME=Shop\nSERVER_PORT=9090\n"), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "Shop", cfg.ProjectName)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "tdd_store", databaseName("mongodb://localhost:27017"))
	assert.Equal(t, "shop", databaseName("mongodb://user:pw@host:27017/shop?authSource=admin"))
}
