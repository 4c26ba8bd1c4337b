// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Directory for the client data database (always absolute)
	Port      int
	LogLevel  string
	LogPretty bool
	DevMode   bool

	Cache       CacheConfig
	Marketplace MarketplaceConfig
	Cert        CertLookupConfig
	GenAI       GenAIConfig

	KeyFactsFile          string // Optional override for the embedded curated key facts table
	CoalesceInflightPrice bool   // Share one resolution between concurrent identical requests
}

// CacheConfig selects and tunes the cache store
type CacheConfig struct {
	Backend         string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	TTLAIAnalyze    time.Duration
	TTLEbayPrice    time.Duration
	CleanupSchedule string // cron expression for expired-entry cleanup (sqlite only)
}

// MarketplaceConfig configures the sold-listings adapter
type MarketplaceConfig struct {
	BaseURL       string
	OAuthToken    string
	MarketplaceID string
}

// Enabled reports whether the marketplace adapter has credentials
func (c MarketplaceConfig) Enabled() bool {
	return c.BaseURL != "" && c.OAuthToken != ""
}

// CertLookupConfig configures the certification lookup adapter
type CertLookupConfig struct {
	BaseURL string
	APIKey  string
}

// Enabled reports whether the certification adapter is configured
func (c CertLookupConfig) Enabled() bool {
	return c.BaseURL != ""
}

// GenAIConfig configures the generative model adapter
type GenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Enabled reports whether the generative adapter has credentials
func (c GenAIConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("LONGBOX_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:   absDataDir,
		Port:      getEnvAsInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		DevMode:   getEnvAsBool("DEV_MODE", false),
		Cache: CacheConfig{
			Backend:         getEnv("CACHE_BACKEND", CacheBackendSQLite),
			RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getEnvAsInt("REDIS_DB", 0),
			TTLAIAnalyze:    getEnvAsDuration("CACHE_TTL_AI_ANALYZE", 30*24*time.Hour),
			TTLEbayPrice:    getEnvAsDuration("CACHE_TTL_EBAY_PRICE", 24*time.Hour),
			CleanupSchedule: getEnv("CACHE_CLEANUP_SCHEDULE", "0 3 * * *"),
		},
		Marketplace: MarketplaceConfig{
			BaseURL:       getEnv("EBAY_API_URL", "https://api.ebay.com"),
			OAuthToken:    getEnv("EBAY_OAUTH_TOKEN", ""),
			MarketplaceID: getEnv("EBAY_MARKETPLACE_ID", "EBAY_US"),
		},
		Cert: CertLookupConfig{
			BaseURL: getEnv("CERT_LOOKUP_URL", ""),
			APIKey:  getEnv("CERT_LOOKUP_API_KEY", ""),
		},
		GenAI: GenAIConfig{
			BaseURL: getEnv("GENAI_API_URL", "https://api.anthropic.com"),
			APIKey:  getEnv("GENAI_API_KEY", ""),
			Model:   getEnv("GENAI_MODEL", "claude-sonnet-4-20250514"),
		},
		KeyFactsFile:          getEnv("KEY_FACTS_FILE", ""),
		CoalesceInflightPrice: getEnvAsBool("PRICE_COALESCE_INFLIGHT", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendSQLite, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q (expected %q or %q)", c.Cache.Backend, CacheBackendSQLite, CacheBackendRedis)
	}

	if c.Cache.TTLAIAnalyze <= 0 || c.Cache.TTLEbayPrice <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
