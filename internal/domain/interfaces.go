package domain

import (
	"context"
	"errors"
)

var (
	// ErrNoData means the adapter looked and found nothing usable
	ErrNoData = errors.New("no data")
	// ErrAdapterUnavailable means the adapter is not configured
	ErrAdapterUnavailable = errors.New("adapter unavailable")
	// ErrMalformedResponse means the adapter answered with an unexpected shape
	ErrMalformedResponse = errors.New("malformed adapter response")
)

// CacheStore is the namespaced key/value store every tier sits on top of.
// Get failures are reported as misses. Set is best-effort: callers ignore its error.
type CacheStore interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool)
	Set(ctx context.Context, namespace, key string, value interface{}) error
	IsAvailable(ctx context.Context) bool
}

// CertificationLookup fetches the grading label for an encapsulated comic
type CertificationLookup interface {
	Lookup(ctx context.Context, gradingCompany, certificationNumber string) (*CertificationRecord, error)
}

// KeyFactsLookup is the curated, authoritative key facts table.
// The bool is false when the comic is not in the table.
type KeyFactsLookup interface {
	Lookup(title, issueNumber string) ([]string, bool)
}

// MarketplaceLookup queries sold listings. It returns ErrNoData when nothing sold.
type MarketplaceLookup interface {
	SoldListings(ctx context.Context, q PriceQuery) (*MarketSummary, error)
}

// PriceEstimator asks a generative model for sale and per-grade estimates.
// Malformed output is returned as ErrMalformedResponse, never a panic.
type PriceEstimator interface {
	EstimatePrices(ctx context.Context, description string) (*PriceEstimate, error)
}

// MetadataCompleter fills the named missing fields in a single call
type MetadataCompleter interface {
	CompleteMetadata(ctx context.Context, details ComicDetails, missing []string) (*MetadataCompletion, error)
}

// CoverReader reads a cover photo into comic details
type CoverReader interface {
	ReadCover(ctx context.Context, image []byte, mediaType string) (*ComicDetails, error)
}
