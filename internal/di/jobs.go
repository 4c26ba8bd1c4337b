package di

import (
	"fmt"

	"github.com/longboxhq/longbox/internal/clientdata"
	"github.com/longboxhq/longbox/internal/config"
	"github.com/longboxhq/longbox/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers background jobs.
// Redis expires keys itself, so the cleanup job only exists for the sqlite backend.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Scheduler = scheduler.New(log)

	if container.CacheRepo == nil {
		return nil
	}

	container.CleanupJob = clientdata.NewCleanupJob(container.CacheRepo, log)
	if err := container.Scheduler.AddJob(cfg.Cache.CleanupSchedule, container.CleanupJob); err != nil {
		return fmt.Errorf("failed to register cache cleanup job: %w", err)
	}

	log.Info().Str("schedule", cfg.Cache.CleanupSchedule).Msg("Registered cache cleanup job")
	return nil
}
