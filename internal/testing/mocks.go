package testing

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MemoryCache is an in-memory CacheStore whose Write lands synchronously,
// so tests can assert on the cache right after a call returns.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	unavailable bool
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func cacheKey(namespace, key string) string {
	return namespace + "/" + key
}

// Get returns the stored bytes
func (c *MemoryCache) Get(_ context.Context, namespace, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return nil, false
	}
	v, ok := c.entries[cacheKey(namespace, key)]
	return v, ok
}

// Set stores value as JSON
func (c *MemoryCache) Set(_ context.Context, namespace, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.Put(namespace, key, data)
	return nil
}

// IsAvailable reports false after SetUnavailable
func (c *MemoryCache) IsAvailable(context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unavailable
}

// Write is the synchronous counterpart of the async cache writer
func (c *MemoryCache) Write(namespace, key string, value interface{}) {
	_ = c.Set(context.Background(), namespace, key, value)
}

// Put stores raw bytes, bypassing encoding
func (c *MemoryCache) Put(namespace, key string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(namespace, key)] = raw
}

// Len returns the number of stored entries
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetUnavailable makes every Get a miss
func (c *MemoryCache) SetUnavailable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unavailable = true
}

// MockMarketplace is a testify mock of domain.MarketplaceLookup
type MockMarketplace struct {
	mock.Mock
}

func (m *MockMarketplace) SoldListings(ctx context.Context, q domain.PriceQuery) (*domain.MarketSummary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketSummary), args.Error(1)
}

// MockEstimator is a testify mock of domain.PriceEstimator
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) EstimatePrices(ctx context.Context, description string) (*domain.PriceEstimate, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceEstimate), args.Error(1)
}

// MockCoverReader is a testify mock of domain.CoverReader
type MockCoverReader struct {
	mock.Mock
}

func (m *MockCoverReader) ReadCover(ctx context.Context, image []byte, mediaType string) (*domain.ComicDetails, error) {
	args := m.Called(ctx, image, mediaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComicDetails), args.Error(1)
}

// MockCertification is a testify mock of domain.CertificationLookup
type MockCertification struct {
	mock.Mock
}

func (m *MockCertification) Lookup(ctx context.Context, gradingCompany, certificationNumber string) (*domain.CertificationRecord, error) {
	args := m.Called(ctx, gradingCompany, certificationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CertificationRecord), args.Error(1)
}

// MockCompleter is a testify mock of domain.MetadataCompleter
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) CompleteMetadata(ctx context.Context, details domain.ComicDetails, missing []string) (*domain.MetadataCompletion, error) {
	args := m.Called(ctx, details, missing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetadataCompletion), args.Error(1)
}

// MockKeyFacts is a testify mock of domain.KeyFactsLookup
type MockKeyFacts struct {
	mock.Mock
}

func (m *MockKeyFacts) Lookup(title, issueNumber string) ([]string, bool) {
	args := m.Called(title, issueNumber)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]string), args.Bool(1)
}
