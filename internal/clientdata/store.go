package clientdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SQLiteStore is the persistent cache store backed by the client data tables.
// Read and write failures are logged and reported as misses; they never reach callers as errors
// on the read path.
type SQLiteStore struct {
	repo *Repository
	ttls TTLs
	log  zerolog.Logger
}

// NewSQLiteStore creates a cache store over the repository.
func NewSQLiteStore(repo *Repository, ttls TTLs, log zerolog.Logger) *SQLiteStore {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &SQLiteStore{
		repo: repo,
		ttls: ttls,
		log:  log.With().Str("component", "cache_store").Str("backend", "sqlite").Logger(),
	}
}

// Get returns the fresh payload stored under namespace/key.
func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) ([]byte, bool) {
	table, ok := TableFor(namespace)
	if !ok {
		s.log.Warn().Str("namespace", namespace).Msg("Unknown cache namespace")
		return nil, false
	}

	data, err := s.repo.GetIfFresh(ctx, table, key)
	if err != nil {
		s.log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Cache read failed")
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	return data, true
}

// Set stores value under namespace/key with the namespace TTL.
func (s *SQLiteStore) Set(ctx context.Context, namespace, key string, value interface{}) error {
	table, ok := TableFor(namespace)
	if !ok {
		return errUnknownNamespace(namespace)
	}

	if err := s.repo.Store(ctx, table, key, value, s.ttls.For(namespace)); err != nil {
		s.log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Cache write failed")
		return err
	}
	return nil
}

// IsAvailable reports whether the database answers a ping within a second.
func (s *SQLiteStore) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.repo.Ping(ctx) == nil
}
