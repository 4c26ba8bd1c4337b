package di

import (
	"fmt"
	"path/filepath"

	"github.com/longboxhq/longbox/internal/clientdata"
	"github.com/longboxhq/longbox/internal/config"
	"github.com/longboxhq/longbox/internal/database"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/rs/zerolog"
)

// InitializeCache opens the configured cache backend and returns a container holding it
func InitializeCache(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{CacheBackend: cfg.Cache.Backend}

	ttls := clientdata.TTLs{
		domain.NamespaceAIAnalyze: cfg.Cache.TTLAIAnalyze,
		domain.NamespaceEbayPrice: cfg.Cache.TTLEbayPrice,
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		store, err := clientdata.NewRedisStore(clientdata.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, ttls, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		container.Redis = store
		container.Cache = store

	default:
		// cache.db - price and cover analysis cache (ephemeral, safe to delete)
		cacheDB, err := database.New(database.Config{
			Path:    filepath.Join(cfg.DataDir, "cache.db"),
			Profile: database.ProfileCache,
			Name:    "cache",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache database: %w", err)
		}
		if err := cacheDB.Migrate(); err != nil {
			cacheDB.Close()
			return nil, fmt.Errorf("failed to migrate cache database: %w", err)
		}

		container.CacheDB = cacheDB
		container.CacheRepo = clientdata.NewRepository(cacheDB.Conn())
		container.Cache = clientdata.NewSQLiteStore(container.CacheRepo, ttls, log)
	}

	container.CacheWriter = clientdata.NewAsyncWriter(container.Cache, log)

	log.Info().Str("backend", container.CacheBackend).Msg("Cache store initialized")
	return container, nil
}
