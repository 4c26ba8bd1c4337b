package di

import (
	"github.com/longboxhq/longbox/internal/clients/certification"
	"github.com/longboxhq/longbox/internal/clients/ebay"
	"github.com/longboxhq/longbox/internal/clients/genai"
	"github.com/longboxhq/longbox/internal/config"
	"github.com/rs/zerolog"
)

// InitializeClients constructs the source adapters that are configured.
// Unconfigured adapters stay nil interfaces, never typed nils.
func InitializeClients(container *Container, cfg *config.Config, log zerolog.Logger) {
	if cfg.Marketplace.Enabled() {
		container.Marketplace = ebay.NewClient(cfg.Marketplace.BaseURL, cfg.Marketplace.OAuthToken, cfg.Marketplace.MarketplaceID, log)
	} else {
		log.Warn().Msg("Marketplace adapter not configured, sold listings disabled")
	}

	if cfg.Cert.Enabled() {
		container.Certification = certification.NewClient(cfg.Cert.BaseURL, cfg.Cert.APIKey, log)
	} else {
		log.Info().Msg("Certification lookup not configured")
	}

	if cfg.GenAI.Enabled() {
		client := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Model, log)
		container.Estimator = client
		container.Completer = client
		container.Vision = client
	} else {
		log.Warn().Msg("Generative model not configured, estimates and cover analysis disabled")
	}
}
