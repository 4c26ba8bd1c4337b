package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/longboxhq/longbox/internal/validation"
)

const coverSystemPrompt = `You identify comic books from photos. Reply with a single JSON object and nothing else:
{"title":string,"issueNumber":string,"publisher":string,"releaseYear":integer|null,"variant":string,
 "writer":string,"artist":string,"coverArtist":string,"grade":number|null,"isSlabbed":boolean,
 "gradingCompany":string,"certificationNumber":string,"labelType":string,"pageQuality":string,
 "keyInfo":[string]}
grade is your estimate on the 0.5-10.0 scale, or the printed label grade when the book is slabbed.
Use empty strings for anything you cannot read.`

type coverReply struct {
	Title               string   `json:"title" validate:"required"`
	IssueNumber         string   `json:"issueNumber"`
	Publisher           string   `json:"publisher"`
	ReleaseYear         *int     `json:"releaseYear"`
	Variant             string   `json:"variant"`
	Writer              string   `json:"writer"`
	Artist              string   `json:"artist"`
	CoverArtist         string   `json:"coverArtist"`
	Grade               *float64 `json:"grade"`
	IsSlabbed           bool     `json:"isSlabbed"`
	GradingCompany      string   `json:"gradingCompany"`
	CertificationNumber string   `json:"certificationNumber"`
	LabelType           string   `json:"labelType"`
	PageQuality         string   `json:"pageQuality"`
	KeyInfo             []string `json:"keyInfo"`
}

// ReadCover reads a cover photo into comic details.
func (c *Client) ReadCover(ctx context.Context, image []byte, mediaType string) (*domain.ComicDetails, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	text, err := c.complete(ctx, "genai_read_cover", coverSystemPrompt, []contentBlock{
		imageBlock(image, mediaType),
		textBlock("Identify this comic."),
	})
	if err != nil {
		return nil, err
	}

	details, err := parseCover(text)
	if err != nil {
		c.log.Warn().Err(err).Msg("Discarding malformed cover read")
		return nil, err
	}
	return details, nil
}

func parseCover(text string) (*domain.ComicDetails, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var reply coverReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := validation.ValidateStruct(&reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return &domain.ComicDetails{
		Title:               utils.CollapseSpaces(reply.Title),
		IssueNumber:         utils.NormalizeIssue(reply.IssueNumber),
		Publisher:           strings.TrimSpace(reply.Publisher),
		ReleaseYear:         reply.ReleaseYear,
		Variant:             strings.TrimSpace(reply.Variant),
		Writer:              strings.TrimSpace(reply.Writer),
		Artist:              strings.TrimSpace(reply.Artist),
		CoverArtist:         strings.TrimSpace(reply.CoverArtist),
		Grade:               reply.Grade,
		IsSlabbed:           reply.IsSlabbed,
		GradingCompany:      strings.TrimSpace(reply.GradingCompany),
		CertificationNumber: strings.TrimSpace(reply.CertificationNumber),
		LabelType:           strings.TrimSpace(reply.LabelType),
		PageQuality:         strings.TrimSpace(reply.PageQuality),
		KeyInfo:             reply.KeyInfo,
	}, nil
}
