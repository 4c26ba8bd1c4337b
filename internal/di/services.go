package di

import (
	"fmt"

	"github.com/longboxhq/longbox/internal/config"
	"github.com/longboxhq/longbox/internal/modules/analysis"
	"github.com/longboxhq/longbox/internal/modules/keyfacts"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	"github.com/longboxhq/longbox/internal/modules/pricing"
	"github.com/rs/zerolog"
)

// InitializeServices creates the services on top of the cache and adapters
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	table, err := keyfacts.LoadFile(cfg.KeyFactsFile, log)
	if err != nil {
		return fmt.Errorf("failed to load key facts: %w", err)
	}
	container.KeyFacts = table

	container.MetadataService = metadata.NewService(
		container.KeyFacts,
		container.Certification,
		container.Completer,
		log,
	)

	container.PriceResolver = pricing.NewResolver(
		container.Cache,
		container.CacheWriter,
		container.Marketplace,
		container.Estimator,
		pricing.Options{CoalesceInflight: cfg.CoalesceInflightPrice},
		log,
	)

	container.AnalysisService = analysis.NewService(
		container.Cache,
		container.CacheWriter,
		container.Vision,
		container.MetadataService,
		log,
	)

	return nil
}
