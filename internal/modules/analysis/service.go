// Package analysis turns a cover photo into resolved comic metadata, caching results by
// image content so the same photo is never read twice within the aiAnalyze TTL.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/metrics"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

// MetadataResolver refines details read from a cover
type MetadataResolver interface {
	Resolve(ctx context.Context, details domain.ComicDetails) *metadata.Resolution
}

// CacheWriter performs best-effort background cache writes
type CacheWriter interface {
	Write(namespace, key string, value interface{})
}

// Result is a cover analysis
type Result struct {
	Details   domain.ComicDetails      `json:"details"`
	Sources   map[string]metadata.Tier `json:"sources"`
	ImageHash string                   `json:"imageHash"`
	Cached    bool                     `json:"cached"`
}

// Service analyzes cover photos
type Service struct {
	cache    domain.CacheStore
	writer   CacheWriter
	vision   domain.CoverReader
	metadata MetadataResolver
	log      zerolog.Logger
}

// NewService creates a new cover analysis service
func NewService(cache domain.CacheStore, writer CacheWriter, vision domain.CoverReader, resolver MetadataResolver, log zerolog.Logger) *Service {
	return &Service{
		cache:    cache,
		writer:   writer,
		vision:   vision,
		metadata: resolver,
		log:      log.With().Str("service", "analysis").Logger(),
	}
}

// ImageFingerprint is the cache key for an image: the hex SHA-256 of its bytes
func ImageFingerprint(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// AnalyzeCover reads a cover photo and resolves its metadata.
// Failed reads are returned as errors and never cached.
func (s *Service) AnalyzeCover(ctx context.Context, image []byte, mediaType string) (*Result, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	key := ImageFingerprint(image)
	log := s.log.With().Str("image_hash", key).Logger()

	if cached := s.lookup(ctx, key, log); cached != nil {
		log.Debug().Msg("Cover analysis served from cache")
		return cached, nil
	}

	if s.vision == nil {
		metrics.RecordAdapterCall("vision", metrics.OutcomeSkipped)
		return nil, fmt.Errorf("cover reader: %w", domain.ErrAdapterUnavailable)
	}

	defer utils.OperationTimer("analyze_cover", log)()

	details, err := s.vision.ReadCover(ctx, image, mediaType)
	if err != nil {
		metrics.RecordAdapterCall("vision", metrics.OutcomeError)
		log.Warn().Err(err).Msg("Cover read failed")
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	metrics.RecordAdapterCall("vision", metrics.OutcomeSuccess)

	result := &Result{Details: *details, ImageHash: key}
	if s.metadata != nil {
		res := s.metadata.Resolve(ctx, *details)
		result.Details = res.Details
		result.Sources = res.Sources
	}

	if s.writer != nil {
		s.writer.Write(domain.NamespaceAIAnalyze, key, result)
	}

	log.Info().
		Str("title", result.Details.Title).
		Str("issue", result.Details.IssueNumber).
		Msg("Cover analyzed")

	return result, nil
}

func (s *Service) lookup(ctx context.Context, key string, log zerolog.Logger) *Result {
	if s.cache == nil {
		return nil
	}

	data, ok := s.cache.Get(ctx, domain.NamespaceAIAnalyze, key)
	if !ok {
		metrics.RecordCacheLookup(domain.NamespaceAIAnalyze, metrics.CacheMiss)
		return nil
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil || result.Details.Title == "" {
		metrics.RecordCacheLookup(domain.NamespaceAIAnalyze, metrics.CacheMiss)
		log.Warn().Err(err).Msg("Ignoring unreadable cached cover analysis")
		return nil
	}

	metrics.RecordCacheLookup(domain.NamespaceAIAnalyze, metrics.CacheHit)
	result.Cached = true
	result.ImageHash = key
	return &result
}
