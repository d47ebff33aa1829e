package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "sessions")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "access-secret", cfg.AccessSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshSecret)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 10, cfg.BcryptCost)

	// Pool settings fall back to defaults when unset.
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 30*time.Minute, cfg.DBConnLifetime)
}

func TestLoad_PoolOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "5")
	t.Setenv("DB_CONN_LIFETIME", "10m")

	cfg := Load()
	assert.Equal(t, 5, cfg.DBMaxConns)
	assert.Equal(t, 10*time.Minute, cfg.DBConnLifetime)
}

func TestLoadLoginRateLimit_Defaults(t *testing.T) {
	t.Setenv("LOGIN_RATE_ENABLED", "")
	t.Setenv("LOGIN_RATE_MAX", "")
	t.Setenv("LOGIN_RATE_WINDOW", "")

	cfg := LoadLoginRateLimit()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.Max)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.Equal(t, "login_rl", cfg.Prefix)
}

func TestLoadLoginRateLimit_Overrides(t *testing.T) {
	t.Setenv("LOGIN_RATE_ENABLED", "false")
	t.Setenv("LOGIN_RATE_MAX", "3")
	t.Setenv("LOGIN_RATE_WINDOW", "30s")

	cfg := LoadLoginRateLimit()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.Max)
	assert.Equal(t, 30*time.Second, cfg.Window)
}

func TestLoadLoginRateLimit_ClampsBadValues(t *testing.T) {
	t.Setenv("LOGIN_RATE_MAX", "0")
	t.Setenv("LOGIN_RATE_WINDOW", "not-a-duration")

	cfg := LoadLoginRateLimit()
	assert.Equal(t, 1, cfg.Max)
	assert.Equal(t, time.Minute, cfg.Window)
}
