// Package di provides dependency injection type definitions.
//
// Container holds every application dependency. It is built by Wire() and passed to the
// HTTP server so handlers can reach the services.
package di

import (
	"github.com/longboxhq/longbox/internal/clientdata"
	"github.com/longboxhq/longbox/internal/database"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/analysis"
	"github.com/longboxhq/longbox/internal/modules/keyfacts"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	"github.com/longboxhq/longbox/internal/modules/pricing"
	"github.com/longboxhq/longbox/internal/scheduler"
)

// Container holds all dependencies for the application.
//
// Adapters whose configuration is missing are left nil; every service treats a nil
// adapter as a miss for its tier.
type Container struct {
	// Cache store (exactly one backend is set)
	CacheBackend string
	CacheDB      *database.DB            // sqlite backend
	Redis        *clientdata.RedisStore  // redis backend
	CacheRepo    *clientdata.Repository  // sqlite backend
	Cache        domain.CacheStore       // the active backend
	CacheWriter  *clientdata.AsyncWriter // fire-and-forget writes on top of Cache

	// Source adapters
	Marketplace   domain.MarketplaceLookup
	Certification domain.CertificationLookup
	Estimator     domain.PriceEstimator
	Completer     domain.MetadataCompleter
	Vision        domain.CoverReader

	// Services
	KeyFacts        *keyfacts.Table
	MetadataService *metadata.Service
	PriceResolver   *pricing.Resolver
	AnalysisService *analysis.Service

	// Background jobs
	Scheduler  *scheduler.Scheduler
	CleanupJob *clientdata.CleanupJob // sqlite backend only
}
