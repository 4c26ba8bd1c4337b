// Package metadata resolves comic metadata through a three-tier waterfall:
// the curated key facts table, the grading-company certification lookup, and a single
// generative completion call for whatever is still missing.
package metadata

import (
	"context"
	"errors"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/metrics"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

// Tier names where a field's value came from
type Tier string

const (
	TierVision        Tier = "vision"
	TierDatabase      Tier = "database"
	TierCertification Tier = "certification"
	TierAI            Tier = "ai"
)

// Completable fields, named as the completion call expects them
const (
	FieldPublisher   = "publisher"
	FieldReleaseYear = "releaseYear"
	FieldWriter      = "writer"
	FieldArtist      = "artist"
	FieldCoverArtist = "coverArtist"
	FieldKeyInfo     = "keyInfo"
)

// Resolution is the refined metadata plus per-field provenance
type Resolution struct {
	Details domain.ComicDetails `json:"details"`
	Sources map[string]Tier     `json:"sources"`
}

func (r *Resolution) set(field string, tier Tier) {
	r.Sources[field] = tier
}

// Service runs the metadata waterfall. Any adapter may be nil; a nil adapter is a miss.
type Service struct {
	keyFacts  domain.KeyFactsLookup
	cert      domain.CertificationLookup
	completer domain.MetadataCompleter
	log       zerolog.Logger
}

// NewService creates a new metadata service
func NewService(
	keyFacts domain.KeyFactsLookup,
	cert domain.CertificationLookup,
	completer domain.MetadataCompleter,
	log zerolog.Logger,
) *Service {
	return &Service{
		keyFacts:  keyFacts,
		cert:      cert,
		completer: completer,
		log:       log.With().Str("service", "metadata").Logger(),
	}
}

// Resolve refines details read from a cover. It never fails: adapter errors are logged
// and the waterfall moves on with what it has.
//
// Precedence on conflict: certification > curated database > generative completion > vision.
func (s *Service) Resolve(ctx context.Context, details domain.ComicDetails) *Resolution {
	res := &Resolution{
		Details: copyDetails(details),
		Sources: make(map[string]Tier),
	}
	markVision(res)

	s.applyKeyFacts(res)

	if s.applyCertification(ctx, res) {
		// the label may have corrected the title or issue
		if src := res.Sources[FieldKeyInfo]; src != TierDatabase && src != TierCertification {
			s.applyKeyFacts(res)
		}
	}

	s.applyCompletion(ctx, res)

	s.log.Debug().
		Str("title", res.Details.Title).
		Str("issue", res.Details.IssueNumber).
		Interface("sources", res.Sources).
		Msg("Metadata resolved")

	return res
}

func (s *Service) applyKeyFacts(res *Resolution) {
	if s.keyFacts == nil || res.Details.Title == "" {
		return
	}

	facts, ok := s.keyFacts.Lookup(res.Details.Title, res.Details.IssueNumber)
	if !ok || len(facts) == 0 {
		metrics.RecordAdapterCall("keyfacts", metrics.OutcomeNoData)
		return
	}

	metrics.RecordAdapterCall("keyfacts", metrics.OutcomeSuccess)
	res.Details.KeyInfo = facts
	res.set(FieldKeyInfo, TierDatabase)
}

// applyCertification reports whether a certification record was applied
func (s *Service) applyCertification(ctx context.Context, res *Resolution) bool {
	d := &res.Details
	if !d.IsSlabbed || d.CertificationNumber == "" {
		return false
	}
	if s.cert == nil {
		metrics.RecordAdapterCall("certification", metrics.OutcomeSkipped)
		return false
	}

	rec, err := s.cert.Lookup(ctx, d.GradingCompany, d.CertificationNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			metrics.RecordAdapterCall("certification", metrics.OutcomeNoData)
			s.log.Debug().Str("cert", d.CertificationNumber).Msg("Certification not found")
		} else {
			metrics.RecordAdapterCall("certification", metrics.OutcomeError)
			s.log.Warn().Err(err).Str("cert", d.CertificationNumber).Msg("Certification lookup failed")
		}
		return false
	}
	metrics.RecordAdapterCall("certification", metrics.OutcomeSuccess)

	overrideString(res, &d.Title, rec.Title, "title")
	overrideString(res, &d.IssueNumber, rec.IssueNumber, "issueNumber")
	overrideString(res, &d.Publisher, rec.Publisher, FieldPublisher)
	overrideString(res, &d.Variant, rec.Variant, "variant")
	overrideString(res, &d.LabelType, rec.LabelType, "labelType")
	overrideString(res, &d.PageQuality, rec.PageQuality, "pageQuality")
	overrideString(res, &d.GradeDate, rec.GradeDate, "gradeDate")
	overrideString(res, &d.GraderNotes, rec.GraderNotes, "graderNotes")
	overrideString(res, &d.Signatures, rec.Signatures, "signatures")

	if rec.ReleaseYear != nil {
		year := *rec.ReleaseYear
		d.ReleaseYear = &year
		res.set(FieldReleaseYear, TierCertification)
	}
	if rec.Grade != nil {
		grade := *rec.Grade
		d.Grade = &grade
		res.set("grade", TierCertification)
	}
	if facts := SplitKeyComments(rec.KeyComments); len(facts) > 0 {
		d.KeyInfo = facts
		res.set(FieldKeyInfo, TierCertification)
	}

	return true
}

func (s *Service) applyCompletion(ctx context.Context, res *Resolution) {
	missing := MissingFields(res.Details)
	if len(missing) == 0 || res.Details.Title == "" {
		return
	}
	if s.completer == nil {
		metrics.RecordAdapterCall("genai_metadata", metrics.OutcomeSkipped)
		return
	}

	defer utils.OperationTimer("metadata_completion", s.log)()

	out, err := s.completer.CompleteMetadata(ctx, res.Details, missing)
	if err != nil {
		metrics.RecordAdapterCall("genai_metadata", metrics.OutcomeError)
		s.log.Warn().Err(err).Strs("missing", missing).Msg("Metadata completion failed")
		return
	}
	metrics.RecordAdapterCall("genai_metadata", metrics.OutcomeSuccess)

	d := &res.Details
	for _, field := range missing {
		switch field {
		case FieldPublisher:
			fillString(res, &d.Publisher, out.Publisher, field)
		case FieldWriter:
			fillString(res, &d.Writer, out.Writer, field)
		case FieldArtist:
			fillString(res, &d.Artist, out.Artist, field)
		case FieldCoverArtist:
			fillString(res, &d.CoverArtist, out.CoverArtist, field)
		case FieldReleaseYear:
			if out.ReleaseYear != nil && *out.ReleaseYear > 0 {
				year := *out.ReleaseYear
				d.ReleaseYear = &year
				res.set(field, TierAI)
			}
		case FieldKeyInfo:
			if len(out.KeyInfo) > 0 {
				d.KeyInfo = append([]string(nil), out.KeyInfo...)
				res.set(field, TierAI)
			}
		}
	}
}

// MissingFields lists the completable fields that are still empty, in a stable order
func MissingFields(d domain.ComicDetails) []string {
	var missing []string
	if d.Publisher == "" {
		missing = append(missing, FieldPublisher)
	}
	if d.ReleaseYear == nil {
		missing = append(missing, FieldReleaseYear)
	}
	if d.Writer == "" {
		missing = append(missing, FieldWriter)
	}
	if d.Artist == "" {
		missing = append(missing, FieldArtist)
	}
	if d.CoverArtist == "" {
		missing = append(missing, FieldCoverArtist)
	}
	if len(d.KeyInfo) == 0 {
		missing = append(missing, FieldKeyInfo)
	}
	return missing
}

func overrideString(res *Resolution, dst *string, value, field string) {
	if value == "" {
		return
	}
	*dst = value
	res.set(field, TierCertification)
}

func fillString(res *Resolution, dst *string, value, field string) {
	if value == "" || *dst != "" {
		return
	}
	*dst = value
	res.set(field, TierAI)
}

func markVision(res *Resolution) {
	d := res.Details
	for field, present := range map[string]bool{
		"title":               d.Title != "",
		"issueNumber":         d.IssueNumber != "",
		FieldPublisher:        d.Publisher != "",
		FieldReleaseYear:      d.ReleaseYear != nil,
		"variant":             d.Variant != "",
		FieldWriter:           d.Writer != "",
		FieldArtist:           d.Artist != "",
		FieldCoverArtist:      d.CoverArtist != "",
		"grade":               d.Grade != nil,
		"gradingCompany":      d.GradingCompany != "",
		"certificationNumber": d.CertificationNumber != "",
		"labelType":           d.LabelType != "",
		"pageQuality":         d.PageQuality != "",
		"gradeDate":           d.GradeDate != "",
		"graderNotes":         d.GraderNotes != "",
		"signatures":          d.Signatures != "",
		FieldKeyInfo:          len(d.KeyInfo) > 0,
	} {
		if present {
			res.set(field, TierVision)
		}
	}
}

func copyDetails(d domain.ComicDetails) domain.ComicDetails {
	out := d
	if d.ReleaseYear != nil {
		year := *d.ReleaseYear
		out.ReleaseYear = &year
	}
	if d.Grade != nil {
		grade := *d.Grade
		out.Grade = &grade
	}
	if d.KeyInfo != nil {
		out.KeyInfo = append([]string(nil), d.KeyInfo...)
	}
	return out
}
