package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/validation"
)

const priceSystemPrompt = `You are a comic book market analyst. Reply with a single JSON object and nothing else.
Shape:
{"recentSales":[{"price":number,"date":"YYYY-MM-DD","source":string}],
 "gradeEstimates":[{"grade":number,"label":string,"rawValue":number,"slabbedValue":number}]}
recentSales lists realistic recent sales for the exact book and condition described, newest first (at most 5).
gradeEstimates gives raw and professionally graded values at grades 9.8, 9.4, 9.0, 8.0, 6.0, 4.0 and 2.0.
Use empty arrays when you have no basis for an estimate.`

type saleEstimate struct {
	Price  float64 `json:"price"`
	Date   string  `json:"date" validate:"required"`
	Source string  `json:"source"`
}

type gradeEstimate struct {
	Grade        float64 `json:"grade" validate:"required"`
	Label        string  `json:"label"`
	RawValue     float64 `json:"rawValue"`
	SlabbedValue float64 `json:"slabbedValue"`
}

type priceEstimateReply struct {
	RecentSales    []saleEstimate  `json:"recentSales" validate:"required,dive"`
	GradeEstimates []gradeEstimate `json:"gradeEstimates" validate:"required,dive"`
}

// EstimatePrices asks the model for sale and per-grade estimates for the described comic.
func (c *Client) EstimatePrices(ctx context.Context, description string) (*domain.PriceEstimate, error) {
	text, err := c.complete(ctx, "genai_estimate_prices", priceSystemPrompt, []contentBlock{textBlock(description)})
	if err != nil {
		return nil, err
	}

	reply, err := parsePriceEstimate(text)
	if err != nil {
		c.log.Warn().Err(err).Msg("Discarding malformed price estimate")
		return nil, err
	}

	return reply, nil
}

func parsePriceEstimate(text string) (*domain.PriceEstimate, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var reply priceEstimateReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := validation.ValidateStruct(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	out := &domain.PriceEstimate{
		RecentSales:    make([]domain.SaleEvent, 0, len(reply.RecentSales)),
		GradeEstimates: make([]domain.GradePoint, 0, len(reply.GradeEstimates)),
	}
	for _, s := range reply.RecentSales {
		source := strings.TrimSpace(s.Source)
		if source == "" {
			source = "ai estimate"
		}
		out.RecentSales = append(out.RecentSales, domain.SaleEvent{Price: s.Price, Date: s.Date, Source: source})
	}
	for _, g := range reply.GradeEstimates {
		out.GradeEstimates = append(out.GradeEstimates, domain.GradePoint{
			Grade:        g.Grade,
			Label:        g.Label,
			RawValue:     g.RawValue,
			SlabbedValue: g.SlabbedValue,
		})
	}

	return out, nil
}
