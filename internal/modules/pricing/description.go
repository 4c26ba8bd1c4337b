package pricing

import (
	"fmt"
	"strings"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/grading"
	"github.com/longboxhq/longbox/internal/utils"
)

// Describe renders a price query as the natural-language description the estimator expects
func Describe(q domain.PriceQuery) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s #%s", utils.CollapseSpaces(q.Title), utils.NormalizeIssue(q.IssueNumber))

	grade := fmt.Sprintf("%.1f", q.Grade)
	if label := grading.Label(q.Grade); label != "" {
		grade += " (" + label + ")"
	}

	if q.IsEncapsulated {
		company := strings.ToUpper(strings.TrimSpace(q.GradingCompany))
		if company == "" {
			company = "a grading company"
		}
		fmt.Fprintf(&b, ", professionally graded %s by %s and encapsulated", grade, company)
	} else {
		fmt.Fprintf(&b, ", raw (ungraded) copy in %s condition", grade)
	}

	b.WriteString(".")
	return b.String()
}
