package di

import (
	"context"
	"fmt"

	"github.com/longboxhq/longbox/internal/config"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
// 1. Open the cache store
// 2. Construct configured adapters
// 3. Initialize services
// 4. Register jobs
func Wire(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container, err := InitializeCache(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	InitializeClients(container, cfg, log)

	if err := InitializeServices(container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := RegisterJobs(container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, nil
}

// Shutdown stops background work in order: the scheduler, then pending cache writes
// (bounded by ctx), then the cache backend itself.
func (c *Container) Shutdown(ctx context.Context, log zerolog.Logger) {
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}

	if err := c.CacheWriter.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("Gave up waiting for pending cache writes")
	}

	c.Close()
}

// Close releases the cache backend
func (c *Container) Close() {
	if c.CacheDB != nil {
		c.CacheDB.Close()
	}
	if c.Redis != nil {
		c.Redis.Close()
	}
}
