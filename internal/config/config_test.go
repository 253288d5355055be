package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "host=localhost user=fit dbname=fit")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "10m")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 30, cfg.AuthRatePerMinute)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=sqlite\nJWT_SECRET=from-file\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Contains(t, cfg.DatabaseURL, "_foreign_keys=on")
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "dsn")
		t.Setenv("JWT_SECRET", "")

		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "dsn")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "oracle")

		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "oracle")
	})

	t.Run("unknown gin mode", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "dsn")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("GIN_MODE", "verbose")

		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "GIN_MODE")
	})
}
