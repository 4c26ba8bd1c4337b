package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/longboxhq/longbox/internal/domain"
	testingpkg "github.com/longboxhq/longbox/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func completeDetails() domain.ComicDetails {
	return domain.ComicDetails{
		Title:       "Amazing Fantasy",
		IssueNumber: "15",
		Publisher:   "Marvel",
		ReleaseYear: intPtr(1962),
		Writer:      "Stan Lee",
		Artist:      "Steve Ditko",
		CoverArtist: "Jack Kirby",
		KeyInfo:     []string{"from the cover"},
	}
}

func TestResolve_KeyFactsOverrideVision(t *testing.T) {
	kf := new(testingpkg.MockKeyFacts)
	kf.On("Lookup", "Amazing Fantasy", "15").Return([]string{"1st appearance of Spider-Man"}, true)
	completer := new(testingpkg.MockCompleter)

	svc := NewService(kf, nil, completer, zerolog.Nop())
	res := svc.Resolve(context.Background(), completeDetails())

	assert.Equal(t, []string{"1st appearance of Spider-Man"}, res.Details.KeyInfo)
	assert.Equal(t, TierDatabase, res.Sources[FieldKeyInfo])
	assert.Equal(t, TierVision, res.Sources[FieldPublisher])
	completer.AssertNotCalled(t, "CompleteMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_CompletionRequestsAllMissingFieldsOnce(t *testing.T) {
	kf := new(testingpkg.MockKeyFacts)
	kf.On("Lookup", "Saga", "1").Return(nil, false)

	completer := new(testingpkg.MockCompleter)
	completer.On("CompleteMetadata", mock.Anything, mock.Anything,
		[]string{FieldReleaseYear, FieldWriter, FieldArtist, FieldCoverArtist, FieldKeyInfo}).
		Return(&domain.MetadataCompletion{
			Publisher:   "should be ignored",
			ReleaseYear: intPtr(2012),
			Writer:      "Brian K. Vaughan",
			Artist:      "Fiona Staples",
			KeyInfo:     []string{"1st appearance of Alana"},
		}, nil).Once()

	svc := NewService(kf, nil, completer, zerolog.Nop())
	res := svc.Resolve(context.Background(), domain.ComicDetails{
		Title:       "Saga",
		IssueNumber: "1",
		Publisher:   "Image",
	})

	completer.AssertNumberOfCalls(t, "CompleteMetadata", 1)
	assert.Equal(t, "Image", res.Details.Publisher)
	assert.Equal(t, TierVision, res.Sources[FieldPublisher])
	require.NotNil(t, res.Details.ReleaseYear)
	assert.Equal(t, 2012, *res.Details.ReleaseYear)
	assert.Equal(t, "Brian K. Vaughan", res.Details.Writer)
	assert.Equal(t, TierAI, res.Sources[FieldWriter])
	assert.Empty(t, res.Details.CoverArtist)
	_, hasCover := res.Sources[FieldCoverArtist]
	assert.False(t, hasCover)
}

func TestResolve_CertificationOverridesAndSplitsKeyComments(t *testing.T) {
	kf := new(testingpkg.MockKeyFacts)
	kf.On("Lookup", "Amazng Fantasy", "15").Return(nil, false).Once()
	kf.On("Lookup", "Amazing Fantasy", "15").Return([]string{"from the table"}, true).Once()

	cert := new(testingpkg.MockCertification)
	cert.On("Lookup", mock.Anything, "CGC", "1234567001").Return(&domain.CertificationRecord{
		Title:       "Amazing Fantasy",
		Grade:       floatPtr(9.4),
		PageQuality: "White",
		KeyComments: "Origin and 1st appearance of Spider-Man. 1st appearance of Aunt May!",
	}, nil)

	details := completeDetails()
	details.Title = "Amazng Fantasy"
	details.KeyInfo = nil
	details.IsSlabbed = true
	details.GradingCompany = "CGC"
	details.CertificationNumber = "1234567001"
	details.Grade = floatPtr(9.0)

	svc := NewService(kf, cert, nil, zerolog.Nop())
	res := svc.Resolve(context.Background(), details)

	assert.Equal(t, "Amazing Fantasy", res.Details.Title)
	assert.Equal(t, TierCertification, res.Sources["title"])
	require.NotNil(t, res.Details.Grade)
	assert.Equal(t, 9.4, *res.Details.Grade)
	assert.Equal(t, "White", res.Details.PageQuality)
	assert.Equal(t, []string{"Origin and 1st appearance of Spider-Man", "1st appearance of Aunt May!"}, res.Details.KeyInfo)
	assert.Equal(t, TierCertification, res.Sources[FieldKeyInfo])
	// key comments from the label win, so the corrected title is not looked up again
	kf.AssertNumberOfCalls(t, "Lookup", 1)

	// the input is untouched
	assert.Equal(t, 9.0, *details.Grade)
}

func TestResolve_CorrectedTitleRetriesKeyFacts(t *testing.T) {
	kf := new(testingpkg.MockKeyFacts)
	kf.On("Lookup", "Amazng Fantasy", "15").Return(nil, false).Once()
	kf.On("Lookup", "Amazing Fantasy", "15").Return([]string{"from the table"}, true).Once()

	cert := new(testingpkg.MockCertification)
	cert.On("Lookup", mock.Anything, "CGC", "42").Return(&domain.CertificationRecord{Title: "Amazing Fantasy"}, nil)

	details := completeDetails()
	details.Title = "Amazng Fantasy"
	details.KeyInfo = nil
	details.IsSlabbed = true
	details.GradingCompany = "CGC"
	details.CertificationNumber = "42"

	res := NewService(kf, cert, nil, zerolog.Nop()).Resolve(context.Background(), details)

	assert.Equal(t, []string{"from the table"}, res.Details.KeyInfo)
	assert.Equal(t, TierDatabase, res.Sources[FieldKeyInfo])
	kf.AssertExpectations(t)
}

func TestResolve_CertificationSkippedWhenRaw(t *testing.T) {
	cert := new(testingpkg.MockCertification)

	details := completeDetails()
	details.CertificationNumber = "1234567001"

	res := NewService(nil, cert, nil, zerolog.Nop()).Resolve(context.Background(), details)

	cert.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "Amazing Fantasy", res.Details.Title)
}

func TestResolve_AdapterFailuresDegrade(t *testing.T) {
	cert := new(testingpkg.MockCertification)
	cert.On("Lookup", mock.Anything, "CBCS", "99").Return(nil, errors.New("registry down"))

	completer := new(testingpkg.MockCompleter)
	completer.On("CompleteMetadata", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrMalformedResponse)

	details := domain.ComicDetails{
		Title:               "Spawn",
		IssueNumber:         "1",
		IsSlabbed:           true,
		GradingCompany:      "CBCS",
		CertificationNumber: "99",
	}

	res := NewService(nil, cert, completer, zerolog.Nop()).Resolve(context.Background(), details)

	assert.Equal(t, "Spawn", res.Details.Title)
	assert.Empty(t, res.Details.Publisher)
	assert.Equal(t, TierVision, res.Sources["title"])
	cert.AssertExpectations(t)
	completer.AssertExpectations(t)
}

func TestMissingFields(t *testing.T) {
	assert.Empty(t, MissingFields(completeDetails()))
	assert.Equal(t,
		[]string{FieldPublisher, FieldReleaseYear, FieldWriter, FieldArtist, FieldCoverArtist, FieldKeyInfo},
		MissingFields(domain.ComicDetails{Title: "X"}))
}

func TestSplitKeyComments(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{"empty", "", nil},
		{"single sentence", "1st appearance of Venom.", []string{"1st appearance of Venom"}},
		{"sentences", "Origin of Wolverine. Cameo by Hulk? Yes!", []string{"Origin of Wolverine", "Cameo by Hulk?", "Yes!"}},
		{"newlines", "1st Punisher\r\n\n  Spider-Man appearance  ", []string{"1st Punisher", "Spider-Man appearance"}},
		{"no split inside a number", "Price variant 1.50 cover", []string{"Price variant 1.50 cover"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitKeyComments(tt.in))
		})
	}
}
