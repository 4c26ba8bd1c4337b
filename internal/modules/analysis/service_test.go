package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/keyfacts"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	testingpkg "github.com/longboxhq/longbox/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(cache *testingpkg.MemoryCache, vision domain.CoverReader) *Service {
	table := keyfacts.New([]keyfacts.Entry{
		{Title: "Incredible Hulk", Issue: "181", KeyFacts: []string{"1st full appearance of Wolverine"}},
	}, zerolog.Nop())
	resolver := metadata.NewService(table, nil, nil, zerolog.Nop())
	return NewService(cache, cache, vision, resolver, zerolog.Nop())
}

func TestAnalyzeCover_ReadsOnceThenServesFromCache(t *testing.T) {
	image := []byte("fake jpeg bytes")
	vision := new(testingpkg.MockCoverReader)
	vision.On("ReadCover", mock.Anything, image, "image/png").
		Return(&domain.ComicDetails{Title: "The Incredible Hulk", IssueNumber: "181", Publisher: "Marvel"}, nil).Once()

	svc := newTestService(testingpkg.NewMemoryCache(), vision)

	first, err := svc.AnalyzeCover(context.Background(), image, "image/png")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, ImageFingerprint(image), first.ImageHash)
	assert.Equal(t, []string{"1st full appearance of Wolverine"}, first.Details.KeyInfo)
	assert.Equal(t, metadata.TierDatabase, first.Sources["keyInfo"])

	second, err := svc.AnalyzeCover(context.Background(), image, "image/png")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Details, second.Details)
	assert.Equal(t, first.Sources, second.Sources)

	vision.AssertNumberOfCalls(t, "ReadCover", 1)
}

func TestAnalyzeCover_FailuresAreNotCached(t *testing.T) {
	image := []byte("blurry")
	cache := testingpkg.NewMemoryCache()
	vision := new(testingpkg.MockCoverReader)
	vision.On("ReadCover", mock.Anything, image, "").Return(nil, domain.ErrMalformedResponse)

	svc := newTestService(cache, vision)

	_, err := svc.AnalyzeCover(context.Background(), image, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.Zero(t, cache.Len())

	_, err = svc.AnalyzeCover(context.Background(), image, "")
	require.Error(t, err)
	vision.AssertNumberOfCalls(t, "ReadCover", 2)
}

func TestAnalyzeCover_NoVisionAdapter(t *testing.T) {
	_, err := newTestService(testingpkg.NewMemoryCache(), nil).AnalyzeCover(context.Background(), []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrAdapterUnavailable)
}

func TestAnalyzeCover_EmptyImage(t *testing.T) {
	vision := new(testingpkg.MockCoverReader)
	_, err := newTestService(testingpkg.NewMemoryCache(), vision).AnalyzeCover(context.Background(), nil, "image/jpeg")
	assert.Error(t, err)
	vision.AssertNotCalled(t, "ReadCover", mock.Anything, mock.Anything, mock.Anything)
}

func TestImageFingerprint(t *testing.T) {
	assert.Equal(t, ImageFingerprint([]byte("abc")), ImageFingerprint([]byte("abc")))
	assert.NotEqual(t, ImageFingerprint([]byte("abc")), ImageFingerprint([]byte("abd")))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", ImageFingerprint([]byte("abc")))
}
