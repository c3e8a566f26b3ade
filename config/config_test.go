package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "11222", cfg.Port)
	assert.Equal(t, "lime_", cfg.DB.TablePrefix)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, 4, cfg.Stats.Workers)
	assert.Equal(t, 10*time.Minute, cfg.Stats.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "db:3306")
	t.Setenv("DB_NAME", "survey")
	t.Setenv("DB_USER", "stats")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("STATS_WORKERS", "8")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8, cfg.Stats.Workers)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CorsOrigins)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "stats:pw@tcp(db:3306)/survey?parseTime=true&loc=Local&tls=preferred", dsn)
}

func TestDSNRequiresHostAndName(t *testing.T) {
	_, err := DBSettings{Host: "db"}.DSN()
	assert.ErrorIs(t, err, ErrMissingDatabase)
}

func TestLoadTrustedProxies(t *testing.T) {
	s := &Settings{TrustedProxies: []string{" 10.0.0.1 ", ""}}
	assert.Equal(t, []string{"10.0.0.1"}, s.LoadTrustedProxies())

	empty := &Settings{}
	assert.Equal(t, []string{"127.0.0.1"}, empty.LoadTrustedProxies())
}

func TestInitRedisDisabled(t *testing.T) {
	require.NoError(t, InitRedis(RedisSettings{}))
	assert.Nil(t, RedisClient)
}
