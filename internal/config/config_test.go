package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/algamoney")
	t.Setenv("ALGAMONEY_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("ALGAMONEY_AUTH_ACCESS_TTL", "5m")
	t.Setenv("ALGAMONEY_AUTH_COOKIE_SECURE", "true")

	cnf, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cnf.HTTP.Addr)
	assert.Equal(t, "postgres://localhost/algamoney", cnf.Database.URL)
	assert.Equal(t, "localhost:6379", cnf.Redis.Addr)
	assert.Equal(t, "s3cret", cnf.Auth.JWTSecret)
	assert.Equal(t, 5*time.Minute, cnf.Auth.AccessTTL)
	assert.Equal(t, 24*time.Hour, cnf.Auth.RefreshTTL)
	assert.True(t, cnf.Auth.CookieSecure)
	assert.Equal(t, "info", cnf.Log.Level)
	assert.Equal(t, 1.0, cnf.RateLimit.RPS)
	assert.Equal(t, 3, cnf.RateLimit.Burst)
}

func TestLoad_PrefixedURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://plain")
	t.Setenv("ALGAMONEY_DATABASE_URL", "postgres://prefixed")
	t.Setenv("ALGAMONEY_AUTH_JWT_SECRET", "s3cret")

	cnf, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "postgres://prefixed", cnf.Database.URL)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
http:
  addr: ":9090"
database:
  url: postgres://file
auth:
  jwt_secret: from-file
  refresh_ttl: 2h
ratelimit:
  rps: 4
  burst: 0
log:
  format: json
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("ALGAMONEY_HTTP_ADDR", ":7070")

	cnf, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cnf.HTTP.Addr)
	assert.Equal(t, "postgres://file", cnf.Database.URL)
	assert.Equal(t, "from-file", cnf.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cnf.Auth.RefreshTTL)
	assert.Equal(t, "json", cnf.Log.Format)
	assert.Equal(t, 4.0, cnf.RateLimit.RPS)
	assert.Equal(t, 8, cnf.RateLimit.Burst)
}

func TestLoad_RequiredKeys(t *testing.T) {
	t.Run("database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("ALGAMONEY_AUTH_JWT_SECRET", "s3cret")

		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "database url is required")
	})

	t.Run("jwt secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/algamoney")
		t.Setenv("ALGAMONEY_AUTH_JWT_SECRET", "")

		_, err := Load(t.TempDir())
		assert.ErrorContains(t, err, "jwt secret is required")
	})
}
