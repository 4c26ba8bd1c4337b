// Package certification provides a client for grading-company certification lookups.
// The lookup service fronts CGC, CBCS and PGX registries behind one endpoint:
// GET /certs/{company}/{certNumber}.
package certification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

// CertResponse is the registry record as the lookup service returns it.
// Numbers arrive as strings because registries print them on the label.
type CertResponse struct {
	CertNumber  string `json:"certNumber"`
	Title       string `json:"title"`
	Issue       string `json:"issue"`
	Publisher   string `json:"publisher"`
	Year        string `json:"year"`
	Grade       string `json:"grade"`
	Variant     string `json:"variant"`
	LabelType   string `json:"labelType"`
	PageQuality string `json:"pageQuality"`
	GradeDate   string `json:"gradeDate"`
	GraderNotes string `json:"graderNotes"`
	Signatures  string `json:"signatures"`
	KeyComments string `json:"keyComments"`
}

// Client is the certification lookup client.
type Client struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewClient creates a new certification lookup client. apiKey is optional.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}

	return &Client{
		client: client,
		log:    log.With().Str("client", "certification").Logger(),
	}
}

// Lookup fetches the label record for a certification number.
// Returns domain.ErrNoData when the registry does not know the number.
func (c *Client) Lookup(ctx context.Context, gradingCompany, certificationNumber string) (*domain.CertificationRecord, error) {
	company := strings.ToLower(strings.TrimSpace(gradingCompany))
	cert := strings.TrimSpace(certificationNumber)
	if company == "" || cert == "" {
		return nil, domain.ErrNoData
	}

	defer utils.OperationTimer("cert_lookup", c.log)()

	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/certs/%s/%s", url.PathEscape(company), url.PathEscape(cert)))
	if err != nil {
		return nil, fmt.Errorf("certification request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrNoData
	default:
		return nil, fmt.Errorf("certification API error: status %d, body: %s", resp.StatusCode(), string(resp.Body()))
	}

	var out CertResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return out.toRecord(), nil
}

func (r CertResponse) toRecord() *domain.CertificationRecord {
	rec := &domain.CertificationRecord{
		Title:       strings.TrimSpace(r.Title),
		IssueNumber: utils.NormalizeIssue(r.Issue),
		Publisher:   strings.TrimSpace(r.Publisher),
		Variant:     strings.TrimSpace(r.Variant),
		LabelType:   strings.TrimSpace(r.LabelType),
		PageQuality: strings.TrimSpace(r.PageQuality),
		GradeDate:   strings.TrimSpace(r.GradeDate),
		GraderNotes: strings.TrimSpace(r.GraderNotes),
		Signatures:  strings.TrimSpace(r.Signatures),
		KeyComments: strings.TrimSpace(r.KeyComments),
	}

	if year, err := strconv.Atoi(strings.TrimSpace(r.Year)); err == nil && year > 0 {
		rec.ReleaseYear = &year
	}
	if grade, err := strconv.ParseFloat(strings.TrimSpace(r.Grade), 64); err == nil {
		rec.Grade = &grade
	}

	return rec
}
