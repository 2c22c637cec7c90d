package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if os.Getenv("PORT") == "" {
		assert.Equal(t, 5001, cfg.HTTPServer.Port)
	}
	if os.Getenv("JWT_SECRET") == "" {
		assert.Equal(t, "your-secret-key", cfg.AppSecret)
	}
	if os.Getenv("TOKEN_TTL") == "" {
		assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	}
	if os.Getenv("MONGO_URI") == "" {
		assert.Equal(t, "mongodb://localhost:27017/restaurant-bookings", cfg.Mongo.URI)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("MONGO_URI", "mongodb://db:27017/x")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTPServer.Port)
	assert.Equal(t, ":8081", cfg.HTTPServer.Address())
	assert.Equal(t, "s3cret", cfg.AppSecret)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://db:27017/x", cfg.Mongo.URI)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
env: prod
storage:
  driver: postgres
  timeout: 2s
postgres:
  host: pg
  dbname: bookings
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "pg", cfg.Postgres.Host)
	assert.Equal(t, "bookings", cfg.Postgres.DBName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "cassandra")

	_, err := Load("")
	assert.Error(t, err)
}
