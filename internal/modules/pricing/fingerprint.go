package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
)

// Fingerprint is the cache key for a price query. Logically identical queries
// (case, spacing, '#' and leading zeros in the issue) map to the same key.
func Fingerprint(q domain.PriceQuery) string {
	sum := sha256.Sum256([]byte(canonical(q)))
	return hex.EncodeToString(sum[:])
}

func canonical(q domain.PriceQuery) string {
	condition := "raw"
	company := ""
	if q.IsEncapsulated {
		condition = "slab"
		company = strings.ToUpper(strings.TrimSpace(q.GradingCompany))
	}

	return strings.Join([]string{
		strings.ToLower(utils.CollapseSpaces(q.Title)),
		utils.StripLeadingZeros(utils.NormalizeIssue(q.IssueNumber)),
		fmt.Sprintf("%.1f", q.Grade),
		condition,
		company,
	}, "|")
}
