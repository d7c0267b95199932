package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 720*time.Hour, cfg.Auth.RememberTTL)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.SecureCookies)
	assert.Equal(t, "./data/storage", cfg.Storage.Root)
	assert.Equal(t, "/files", cfg.Storage.PublicURL)
	assert.Equal(t, "info@gidzunipath.lk", cfg.Mail.InboxAddress)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "remote")
	t.Setenv("ADMIN_API_BASE_URL", "https://auth.gidzunipath.lk")
	t.Setenv("ADMIN_API_TIMEOUT", "2s")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_USE_SENTINEL", "true")
	t.Setenv("REDIS_SENTINEL_NODES", "s1:26379,s2:26379")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORAGE_PUBLIC_URL", "https://cdn.gidzunipath.lk/files/")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeRemote, cfg.Auth.Mode)
	assert.Equal(t, "https://auth.gidzunipath.lk", cfg.Auth.AdminAPI.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Auth.AdminAPI.Timeout)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "s3cret", cfg.Postgres.Password)
	assert.True(t, cfg.Redis.UseSentinel)
	assert.Equal(t, []string{"s1:26379", "s2:26379"}, cfg.Redis.SentinelNodes)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	// Sanitize trims the trailing slash so key joins stay predictable.
	assert.Equal(t, "https://cdn.gidzunipath.lk/files", cfg.Storage.PublicURL)
}

func TestAppConfig_InvalidAuthMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "saml")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid AuthMode")
}

func TestAuthConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AuthConfig{
		SessionTTL:  -time.Hour,
		RememberTTL: time.Minute,
	}
	cfg.Sanitize()

	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	// Remember-me never grants less than an ordinary session.
	assert.Equal(t, cfg.SessionTTL, cfg.RememberTTL)
	assert.Equal(t, 3*time.Second, cfg.ValidateTimeout)
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
