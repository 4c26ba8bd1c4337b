// Package domain provides core domain models and types.
package domain

// PriceSource identifies the adapter that ultimately produced a price
type PriceSource string

const (
	// PriceSourceDatabase marks a record persisted with the collection item
	PriceSourceDatabase PriceSource = "database"
	// PriceSourceEbay marks a record aggregated from marketplace sold listings
	PriceSourceEbay PriceSource = "ebay"
	// PriceSourceAI marks a record built from generative estimates
	PriceSourceAI PriceSource = "ai"
)

// Cache namespaces
const (
	NamespaceAIAnalyze = "aiAnalyze" // cover analysis results, keyed by image content hash
	NamespaceEbayPrice = "ebayPrice" // marketplace price records, keyed by price fingerprint
)

// SaleEvent is a single observed (or estimated) sale.
// IsOlderThan6Months is derived against "now" at resolution time; it is never trusted as input.
type SaleEvent struct {
	Price              float64 `json:"price"`
	Date               string  `json:"date"` // ISO-8601
	Source             string  `json:"source"`
	IsOlderThan6Months bool    `json:"isOlderThan6Months"`
}

// GradePoint is a known value pair at one grade.
// SlabbedValue is usually >= RawValue but violations are valid data.
type GradePoint struct {
	Grade        float64 `json:"grade"`
	Label        string  `json:"label"`
	RawValue     float64 `json:"rawValue"`
	SlabbedValue float64 `json:"slabbedValue"`
}

// PriceRecord is the canonical price for a comic at a grade.
// It is built once per resolution and only ever replaced, never mutated.
// EstimatedValue is nil only when RecentSales is empty and no GradeEstimates exist.
type PriceRecord struct {
	EstimatedValue     *float64     `json:"estimatedValue"`
	RecentSales        []SaleEvent  `json:"recentSales"`
	MostRecentSaleDate *string      `json:"mostRecentSaleDate"`
	IsAveraged         bool         `json:"isAveraged"`
	Disclaimer         *string      `json:"disclaimer"`
	GradeEstimates     []GradePoint `json:"gradeEstimates"`
	BaseGrade          *float64     `json:"baseGrade"`
	PriceSource        PriceSource  `json:"priceSource"`
}

// NullPriceRecord is the valid "no price available" outcome.
func NullPriceRecord() *PriceRecord {
	return &PriceRecord{
		RecentSales: []SaleEvent{},
	}
}

// HasValue reports whether the record carries an estimated value
func (r *PriceRecord) HasValue() bool {
	return r != nil && r.EstimatedValue != nil
}

// NoDataMarker is the reserved cache payload for "looked up, found nothing"
type NoDataMarker struct {
	NoData bool `json:"noData"`
}

// PriceQuery identifies what is being priced
type PriceQuery struct {
	Title          string  `json:"title"`
	IssueNumber    string  `json:"issueNumber"`
	Grade          float64 `json:"grade"`
	IsEncapsulated bool    `json:"isEncapsulated"`
	GradingCompany string  `json:"gradingCompany,omitempty"`
}

// ComicDetails is the metadata record for one comic, as read from a cover photo
// and refined by the metadata waterfall. Empty strings and nil pointers mean "unknown".
type ComicDetails struct {
	Title               string   `json:"title"`
	IssueNumber         string   `json:"issueNumber"`
	Publisher           string   `json:"publisher,omitempty"`
	ReleaseYear         *int     `json:"releaseYear,omitempty"`
	Variant             string   `json:"variant,omitempty"`
	Writer              string   `json:"writer,omitempty"`
	Artist              string   `json:"artist,omitempty"`
	CoverArtist         string   `json:"coverArtist,omitempty"`
	Grade               *float64 `json:"grade,omitempty"`
	IsSlabbed           bool     `json:"isSlabbed"`
	GradingCompany      string   `json:"gradingCompany,omitempty"`
	CertificationNumber string   `json:"certificationNumber,omitempty"`
	LabelType           string   `json:"labelType,omitempty"`
	PageQuality         string   `json:"pageQuality,omitempty"`
	GradeDate           string   `json:"gradeDate,omitempty"`
	GraderNotes         string   `json:"graderNotes,omitempty"`
	Signatures          string   `json:"signatures,omitempty"`
	KeyInfo             []string `json:"keyInfo,omitempty"`
}

// CertificationRecord is what a grading company reports for a certification number.
// Any present field overrides the corresponding AI-derived field.
type CertificationRecord struct {
	Title       string   `json:"title,omitempty"`
	IssueNumber string   `json:"issueNumber,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	ReleaseYear *int     `json:"releaseYear,omitempty"`
	Grade       *float64 `json:"grade,omitempty"`
	Variant     string   `json:"variant,omitempty"`
	LabelType   string   `json:"labelType,omitempty"`
	PageQuality string   `json:"pageQuality,omitempty"`
	GradeDate   string   `json:"gradeDate,omitempty"`
	GraderNotes string   `json:"graderNotes,omitempty"`
	Signatures  string   `json:"signatures,omitempty"`
	KeyComments string   `json:"keyComments,omitempty"`
}

// MarketSummary is the marketplace adapter's answer: at least one sale
type MarketSummary struct {
	Sales []SaleEvent `json:"sales"`
}

// PriceEstimate is the generative estimator's answer after shape validation
type PriceEstimate struct {
	RecentSales    []SaleEvent  `json:"recentSales"`
	GradeEstimates []GradePoint `json:"gradeEstimates"`
}

// MetadataCompletion carries fields filled by the generative completion call.
// Only the fields that were requested are applied.
type MetadataCompletion struct {
	Publisher   string   `json:"publisher,omitempty"`
	ReleaseYear *int     `json:"releaseYear,omitempty"`
	Writer      string   `json:"writer,omitempty"`
	Artist      string   `json:"artist,omitempty"`
	CoverArtist string   `json:"coverArtist,omitempty"`
	KeyInfo     []string `json:"keyInfo,omitempty"`
}
