// Package pricing resolves the canonical price record for a comic at a grade.
//
// Resolution is a strict waterfall that stops at the first tier that produces a price:
//
//  1. the ebayPrice cache namespace (a stored record is returned as is)
//  2. marketplace sold listings, skipped when the cache holds a noData marker
//  3. the generative price estimator
//
// When every tier misses the result is the null record: no price, which is not an error.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/metrics"
	"github.com/longboxhq/longbox/internal/modules/grading"
	"github.com/longboxhq/longbox/internal/modules/sales"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// AIDisclaimer is appended to every record built from generative estimates
const AIDisclaimer = "Values are AI estimates, not observed sales."

// CacheWriter performs best-effort background cache writes
type CacheWriter interface {
	Write(namespace, key string, value interface{})
}

// Options tunes the resolver
type Options struct {
	// CoalesceInflight shares one resolution between concurrent identical queries
	CoalesceInflight bool
}

// Resolver runs the price waterfall. Any collaborator may be nil; a nil cache is always
// a miss and a nil adapter is a miss for its tier.
type Resolver struct {
	cache       domain.CacheStore
	writer      CacheWriter
	marketplace domain.MarketplaceLookup
	estimator   domain.PriceEstimator
	opts        Options
	group       singleflight.Group
	now         func() time.Time
	log         zerolog.Logger
}

// NewResolver creates a new price resolver
func NewResolver(
	cache domain.CacheStore,
	writer CacheWriter,
	marketplace domain.MarketplaceLookup,
	estimator domain.PriceEstimator,
	opts Options,
	log zerolog.Logger,
) *Resolver {
	return &Resolver{
		cache:       cache,
		writer:      writer,
		marketplace: marketplace,
		estimator:   estimator,
		opts:        opts,
		now:         time.Now,
		log:         log.With().Str("service", "price_resolver").Logger(),
	}
}

// Resolve returns the price record for q. It never fails; the worst outcome is the null record.
func (r *Resolver) Resolve(ctx context.Context, q domain.PriceQuery) *domain.PriceRecord {
	key := Fingerprint(q)

	if !r.opts.CoalesceInflight {
		return r.resolve(ctx, q, key)
	}

	v, _, shared := r.group.Do(key, func() (interface{}, error) {
		return r.resolve(ctx, q, key), nil
	})
	if shared {
		r.log.Debug().Str("fingerprint", key).Msg("Shared in-flight price resolution")
	}
	return v.(*domain.PriceRecord)
}

func (r *Resolver) resolve(ctx context.Context, q domain.PriceQuery, key string) *domain.PriceRecord {
	start := time.Now()
	log := r.log.With().
		Str("resolution_id", uuid.NewString()).
		Str("title", q.Title).
		Str("issue", q.IssueNumber).
		Float64("grade", q.Grade).
		Bool("slabbed", q.IsEncapsulated).
		Logger()

	record, source := r.waterfall(ctx, q, key, log)

	elapsed := time.Since(start)
	metrics.RecordResolution(source, elapsed)
	log.Info().
		Str("source", source).
		Bool("priced", record.HasValue()).
		Dur("duration_ms", elapsed).
		Msg("Price resolved")

	return record
}

func (r *Resolver) waterfall(ctx context.Context, q domain.PriceQuery, key string, log zerolog.Logger) (*domain.PriceRecord, string) {
	cached, noData := r.lookupCache(ctx, key, log)
	if cached != nil {
		return cached, "cache"
	}

	if noData {
		log.Debug().Msg("Cached noData marker, skipping marketplace")
	} else if r.marketplace == nil {
		metrics.RecordAdapterCall("marketplace", metrics.OutcomeSkipped)
	} else {
		if record := r.fromMarketplace(ctx, q, log); record != nil {
			r.write(key, record)
			return record, string(domain.PriceSourceEbay)
		}
		r.write(key, domain.NoDataMarker{NoData: true})
	}

	if record := r.fromEstimator(ctx, q, log); record != nil {
		return record, string(domain.PriceSourceAI)
	}

	return domain.NullPriceRecord(), ""
}

// lookupCache returns a stored record, or reports whether the noData marker was found
func (r *Resolver) lookupCache(ctx context.Context, key string, log zerolog.Logger) (*domain.PriceRecord, bool) {
	if r.cache == nil {
		return nil, false
	}

	data, ok := r.cache.Get(ctx, domain.NamespaceEbayPrice, key)
	if !ok {
		metrics.RecordCacheLookup(domain.NamespaceEbayPrice, metrics.CacheMiss)
		return nil, false
	}

	var marker domain.NoDataMarker
	if err := json.Unmarshal(data, &marker); err == nil && marker.NoData {
		metrics.RecordCacheLookup(domain.NamespaceEbayPrice, metrics.CacheNoData)
		return nil, true
	}

	var record domain.PriceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		metrics.RecordCacheLookup(domain.NamespaceEbayPrice, metrics.CacheMiss)
		log.Warn().Err(err).Msg("Ignoring unreadable cached price record")
		return nil, false
	}
	if record.RecentSales == nil {
		record.RecentSales = []domain.SaleEvent{}
	}

	metrics.RecordCacheLookup(domain.NamespaceEbayPrice, metrics.CacheHit)
	return &record, false
}

func (r *Resolver) fromMarketplace(ctx context.Context, q domain.PriceQuery, log zerolog.Logger) *domain.PriceRecord {
	defer utils.OperationTimer("marketplace_sold_listings", log)()

	summary, err := r.marketplace.SoldListings(ctx, q)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			metrics.RecordAdapterCall("marketplace", metrics.OutcomeNoData)
			log.Debug().Msg("Marketplace has no sold listings")
		} else {
			metrics.RecordAdapterCall("marketplace", metrics.OutcomeError)
			log.Warn().Err(err).Msg("Marketplace lookup failed")
		}
		return nil
	}

	usable := sales.Usable(summary.Sales)
	if len(usable) == 0 {
		metrics.RecordAdapterCall("marketplace", metrics.OutcomeNoData)
		log.Debug().Int("sales", len(summary.Sales)).Msg("Marketplace returned no usable sales")
		return nil
	}
	metrics.RecordAdapterCall("marketplace", metrics.OutcomeSuccess)

	agg := sales.Aggregate(usable, r.now())
	return buildRecord(agg, nil, q.Grade, domain.PriceSourceEbay)
}

func (r *Resolver) fromEstimator(ctx context.Context, q domain.PriceQuery, log zerolog.Logger) *domain.PriceRecord {
	if r.estimator == nil {
		metrics.RecordAdapterCall("estimator", metrics.OutcomeSkipped)
		return nil
	}

	defer utils.OperationTimer("estimator_prices", log)()

	estimate, err := r.estimator.EstimatePrices(ctx, Describe(q))
	if err != nil {
		metrics.RecordAdapterCall("estimator", metrics.OutcomeError)
		log.Warn().Err(err).Msg("Price estimator failed")
		return nil
	}

	agg := sales.Aggregate(sales.Usable(estimate.RecentSales), r.now())
	points := grading.Normalize(estimate.GradeEstimates)

	if agg.EstimatedValue == nil {
		if len(points) == 0 {
			metrics.RecordAdapterCall("estimator", metrics.OutcomeNoData)
			log.Debug().Msg("Price estimator had no basis for an estimate")
			return nil
		}
		if v, ok := grading.ValueAt(points, q.Grade, q.IsEncapsulated); ok {
			agg.EstimatedValue = &v
		}
	}
	metrics.RecordAdapterCall("estimator", metrics.OutcomeSuccess)

	disclaimer := AIDisclaimer
	if agg.Disclaimer != nil {
		disclaimer = *agg.Disclaimer + " " + AIDisclaimer
	}
	agg.Disclaimer = &disclaimer

	return buildRecord(agg, points, q.Grade, domain.PriceSourceAI)
}

func (r *Resolver) write(key string, value interface{}) {
	if r.writer == nil {
		return
	}
	r.writer.Write(domain.NamespaceEbayPrice, key, value)
}

func buildRecord(agg sales.Result, points []domain.GradePoint, grade float64, source domain.PriceSource) *domain.PriceRecord {
	baseGrade := grade
	return &domain.PriceRecord{
		EstimatedValue:     agg.EstimatedValue,
		RecentSales:        agg.Sales,
		MostRecentSaleDate: agg.MostRecentSaleDate,
		IsAveraged:         agg.IsAveraged,
		Disclaimer:         agg.Disclaimer,
		GradeEstimates:     points,
		BaseGrade:          &baseGrade,
		PriceSource:        source,
	}
}
