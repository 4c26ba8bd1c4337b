package clientdata

import (
	"time"

	"github.com/longboxhq/longbox/internal/domain"
)

// Default TTLs per namespace.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Cover analysis is keyed by image content, so it only goes stale when the reader improves
	TTLAIAnalyze = 30 * 24 * time.Hour // 30 days
	// Marketplace prices move daily; noData markers age out on the same schedule
	TTLEbayPrice = 24 * time.Hour // 1 day
)

// namespaceTables maps cache namespaces onto client data tables.
var namespaceTables = map[string]string{
	domain.NamespaceAIAnalyze: "ai_analyze",
	domain.NamespaceEbayPrice: "ebay_price",
}

// TableFor returns the table backing a namespace.
func TableFor(namespace string) (string, bool) {
	table, ok := namespaceTables[namespace]
	return table, ok
}

// TTLs holds the configured lifetime of each namespace.
type TTLs map[string]time.Duration

// DefaultTTLs returns the built-in namespace lifetimes.
func DefaultTTLs() TTLs {
	return TTLs{
		domain.NamespaceAIAnalyze: TTLAIAnalyze,
		domain.NamespaceEbayPrice: TTLEbayPrice,
	}
}

// For returns the TTL for a namespace, falling back to the shortest default.
func (t TTLs) For(namespace string) time.Duration {
	if ttl, ok := t[namespace]; ok && ttl > 0 {
		return ttl
	}
	return TTLEbayPrice
}
