// Package ebay provides a client for the eBay Marketplace Insights sold-listings API.
package ebay

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

const (
	searchPath = "/buy/marketplace_insights/v1_beta/item_sales/search"
	// Collectibles > Comic Books & Memorabilia > Comics
	comicsCategoryID = "63"
	searchLimit      = 50
)

// ItemSalesResponse is the item_sales search response.
type ItemSalesResponse struct {
	Total     int        `json:"total"`
	ItemSales []ItemSale `json:"itemSales"`
}

// ItemSale is one sold listing.
type ItemSale struct {
	ItemID        string `json:"itemId"`
	Title         string `json:"title"`
	LastSoldDate  string `json:"lastSoldDate"`
	LastSoldPrice Amount `json:"lastSoldPrice"`
	ItemWebURL    string `json:"itemWebUrl"`
}

// Amount is a money value as eBay returns it: a decimal string plus currency.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Client is the sold-listings client.
type Client struct {
	client        *resty.Client
	marketplaceID string
	log           zerolog.Logger
}

// NewClient creates a new sold-listings client.
func NewClient(baseURL, oauthToken, marketplaceID string, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(20*time.Second).
		SetAuthToken(oauthToken).
		SetHeader("Accept", "application/json")

	return &Client{
		client:        client,
		marketplaceID: marketplaceID,
		log:           log.With().Str("client", "ebay").Logger(),
	}
}

// BuildQuery turns a price query into a keyword search.
func BuildQuery(q domain.PriceQuery) string {
	parts := []string{utils.CollapseSpaces(q.Title)}
	if issue := utils.NormalizeIssue(q.IssueNumber); issue != "" {
		parts = append(parts, "#"+issue)
	}
	if q.IsEncapsulated {
		if company := strings.TrimSpace(q.GradingCompany); company != "" {
			parts = append(parts, strings.ToUpper(company))
		}
	}
	if q.Grade > 0 {
		parts = append(parts, strconv.FormatFloat(q.Grade, 'f', 1, 64))
	}
	return strings.Join(parts, " ")
}

// SoldListings returns recent sales matching the query, or domain.ErrNoData when nothing sold.
func (c *Client) SoldListings(ctx context.Context, q domain.PriceQuery) (*domain.MarketSummary, error) {
	defer utils.OperationTimer("ebay_sold_listings", c.log)()

	query := BuildQuery(q)
	c.log.Debug().Str("query", query).Msg("Searching sold listings")

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", c.marketplaceID).
		SetQueryParams(map[string]string{
			"q":            query,
			"category_ids": comicsCategoryID,
			"limit":        strconv.Itoa(searchLimit),
		}).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("sold listings request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, domain.ErrNoData
	default:
		return nil, fmt.Errorf("sold listings API error: status %d, body: %s", resp.StatusCode(), string(resp.Body()))
	}

	var out ItemSalesResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	sales := make([]domain.SaleEvent, 0, len(out.ItemSales))
	for _, item := range out.ItemSales {
		price, err := strconv.ParseFloat(strings.TrimSpace(item.LastSoldPrice.Value), 64)
		if err != nil || price <= 0 || item.LastSoldDate == "" {
			continue
		}
		sales = append(sales, domain.SaleEvent{
			Price:  price,
			Date:   item.LastSoldDate,
			Source: "ebay",
		})
	}

	if len(sales) == 0 {
		return nil, domain.ErrNoData
	}

	c.log.Debug().Int("sales", len(sales)).Int("total", out.Total).Msg("Sold listings found")
	return &domain.MarketSummary{Sales: sales}, nil
}
