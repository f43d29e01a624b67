package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 720, cfg.StateTTL)
	assert.Equal(t, 4, cfg.GroupLimit)
	assert.Equal(t, "2348033464218", cfg.WhatsAppNumber)
	assert.Equal(t, []string{"gibsoncollections1@gmail.com", "gibsoncollections2@gmail.com"}, cfg.AdminEmails)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL())
	assert.Equal(t, 720*time.Hour, cfg.StateTTLDuration())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("ADMIN_EMAILS", "ops@example.com")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "5")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 5*time.Second, cfg.CatalogCacheTTL())
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidGroupLimit(t *testing.T) {
	t.Setenv("HOME_GROUP_LIMIT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid home group limit")
}
