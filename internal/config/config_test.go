package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://forkify-api.herokuapp.com/api", cfg.APIBaseURL)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.ResultsPerPage)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"database_driver": "postgres",
		"DATABASE_URL": "postgres://forkify@localhost/forkify?sslmode=disable",
		"results_per_page": 5,
		"cache_ttl": "1h",
		"allowed_origins": ["http://localhost:3000"]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(data), 0644))
	t.Setenv("FORKIFY_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://forkify@localhost/forkify?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.ResultsPerPage)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"database_driver":"mysql"}`), 0644))

	_, err := Load(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0644))
	_, err = Load(dir)
	assert.Error(t, err)
}
