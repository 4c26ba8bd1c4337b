package clientdata

import (
	"context"
	"sync"
	"time"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/metrics"
	"github.com/rs/zerolog"
)

// DefaultWriteTimeout bounds a single background cache write
const DefaultWriteTimeout = 5 * time.Second

// AsyncWriter performs fire-and-forget cache writes. Write returns immediately;
// failures are logged and counted, never returned. Flush waits for pending writes.
type AsyncWriter struct {
	store   domain.CacheStore
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup // Track in-flight writes
}

// NewAsyncWriter creates a background writer on top of store
func NewAsyncWriter(store domain.CacheStore, log zerolog.Logger) *AsyncWriter {
	return &AsyncWriter{
		store:   store,
		timeout: DefaultWriteTimeout,
		log:     log.With().Str("component", "cache_writer").Logger(),
	}
}

// Write stores value under namespace/key in the background
func (w *AsyncWriter) Write(namespace, key string, value interface{}) {
	if w == nil || w.store == nil {
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// detached from the request so the write outlives it
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		err := w.store.Set(ctx, namespace, key, value)
		metrics.RecordCacheWrite(namespace, err)
		if err != nil {
			w.log.Warn().Err(err).
				Str("namespace", namespace).
				Str("key", key).
				Msg("Cache write dropped")
		}
	}()
}

// Flush blocks until every pending write has finished or ctx is done
func (w *AsyncWriter) Flush(ctx context.Context) error {
	if w == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
