package clientdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "longbox"

// RedisOptions configures the shared cache store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is the shared cache store for multi-instance deployments.
// Expiry is delegated to Redis key TTLs, so it needs no cleanup job.
type RedisStore struct {
	client *redis.Client
	ttls   TTLs
	log    zerolog.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(opts RedisOptions, ttls TTLs, log zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStore(client, ttls, log), nil
}

func newRedisStore(client *redis.Client, ttls TTLs, log zerolog.Logger) *RedisStore {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &RedisStore{
		client: client,
		ttls:   ttls,
		log:    log.With().Str("component", "cache_store").Str("backend", "redis").Logger(),
	}
}

func redisKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, namespace, key)
}

// Get returns the payload stored under namespace/key.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, bool) {
	if _, ok := TableFor(namespace); !ok {
		s.log.Warn().Str("namespace", namespace).Msg("Unknown cache namespace")
		return nil, false
	}

	data, err := s.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}

	return data, true
}

// Set stores value under namespace/key with the namespace TTL.
func (s *RedisStore) Set(ctx context.Context, namespace, key string, value interface{}) error {
	if _, ok := TableFor(namespace); !ok {
		return errUnknownNamespace(namespace)
	}

	payload, ok := value.([]byte)
	if !ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
		payload = encoded
	}

	if err := s.client.Set(ctx, redisKey(namespace, key), payload, s.ttls.For(namespace)).Err(); err != nil {
		s.log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("Cache write failed")
		return err
	}
	return nil
}

// IsAvailable reports whether Redis answers a ping within a second.
func (s *RedisStore) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func errUnknownNamespace(namespace string) error {
	return fmt.Errorf("unknown cache namespace: %s", namespace)
}
