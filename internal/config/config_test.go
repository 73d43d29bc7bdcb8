package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONSOLE_POLL_INTERVAL_SECONDS", "")
	t.Setenv("APP_PORT", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, time.Second, cfg.Console.PollInterval())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONSOLE_POLL_INTERVAL_SECONDS", "5")
	t.Setenv("CONSOLE_PORT", "9999")
	t.Setenv("REDIS_CLIENT_CACHE_TTL_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Console.PollInterval())
	assert.Equal(t, "127.0.0.1:9999", cfg.Console.Addr())
	assert.Zero(t, cfg.Redis.ClientCacheTTLDuration())
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestFallbacksOnGarbage(t *testing.T) {
	t.Setenv("CONSOLE_POLL_INTERVAL_SECONDS", "soon")
	t.Setenv("CONSOLE_UPSTREAM_TIMEOUT_SECONDS", "-1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Console.PollInterval())
	assert.Equal(t, 10*time.Second, cfg.Console.UpstreamTimeout())
}

func TestEmptyRedisAddrDisablesRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Redis.Addr)
}
