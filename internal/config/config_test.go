package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LONGBOX_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, CacheBackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 30*24*time.Hour, cfg.Cache.TTLAIAnalyze)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTLEbayPrice)
	assert.False(t, cfg.CoalesceInflightPrice)
	assert.False(t, cfg.Marketplace.Enabled(), "marketplace needs a token")
	assert.False(t, cfg.Cert.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LONGBOX_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL_EBAY_PRICE", "6h")
	t.Setenv("EBAY_OAUTH_TOKEN", "token")
	t.Setenv("GENAI_API_KEY", "key")
	t.Setenv("PRICE_COALESCE_INFLIGHT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTLEbayPrice)
	assert.True(t, cfg.Marketplace.Enabled())
	assert.True(t, cfg.GenAI.Enabled())
	assert.True(t, cfg.CoalesceInflightPrice)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("LONGBOX_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-number")
	t.Setenv("CACHE_TTL_AI_ANALYZE", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.Cache.TTLAIAnalyze)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: 8080,
			Cache: CacheConfig{
				Backend:      CacheBackendSQLite,
				TTLAIAnalyze: time.Hour,
				TTLEbayPrice: time.Hour,
			},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Cache.TTLEbayPrice = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}
