package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "me@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("CLICKHOUSE_NATIVE_PORT", "9440")
	t.Setenv("FE_ORIGIN", "https://example.com, https://www.example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 9440, cfg.ClickHouse.NativePort)
	assert.Equal(t, "s3cret", cfg.IPHashSalt, "salt falls back to the signing secret")
	assert.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.AllowedOrigins())
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "me@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_RequiresPasswordOrHash(t *testing.T) {
	cfg := &Config{AdminEmail: "me@example.com"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "x"
	assert.Error(t, cfg.Validate())

	cfg.AdminPasswordHash = "$2a$10$abc"
	assert.NoError(t, cfg.Validate())
}
