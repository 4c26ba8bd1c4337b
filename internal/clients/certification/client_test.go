package certification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/certs/cgc/1234567001", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"certNumber": "1234567001",
			"title": "Incredible Hulk",
			"issue": "#181",
			"publisher": "Marvel Comics",
			"year": "1974",
			"grade": "9.6",
			"labelType": "Universal",
			"pageQuality": "White",
			"keyComments": "1st full appearance of Wolverine. Cameo in #180."
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", zerolog.Nop())
	rec, err := client.Lookup(context.Background(), "CGC", " 1234567001 ")
	require.NoError(t, err)

	assert.Equal(t, "Incredible Hulk", rec.Title)
	assert.Equal(t, "181", rec.IssueNumber)
	assert.Equal(t, "Marvel Comics", rec.Publisher)
	require.NotNil(t, rec.ReleaseYear)
	assert.Equal(t, 1974, *rec.ReleaseYear)
	require.NotNil(t, rec.Grade)
	assert.Equal(t, 9.6, *rec.Grade)
	assert.Equal(t, "White", rec.PageQuality)
	assert.Equal(t, "1st full appearance of Wolverine. Cameo in #180.", rec.KeyComments)
	assert.Empty(t, rec.Variant)
}

func TestLookup_UnparseableNumbersLeftEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title": "Spawn", "year": "unknown", "grade": "Qualified"}`))
	}))
	defer server.Close()

	rec, err := NewClient(server.URL, "", zerolog.Nop()).Lookup(context.Background(), "CBCS", "99")
	require.NoError(t, err)
	assert.Nil(t, rec.ReleaseYear)
	assert.Nil(t, rec.Grade)
}

func TestLookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", zerolog.Nop()).Lookup(context.Background(), "CGC", "0")
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestLookup_MissingInputsSkipRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", zerolog.Nop()).Lookup(context.Background(), "", "123")
	assert.ErrorIs(t, err, domain.ErrNoData)
	assert.False(t, called)
}

func TestLookup_ServerErrorAndMalformed(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	_, err := NewClient(failing.URL, "", zerolog.Nop()).Lookup(context.Background(), "CGC", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer garbled.Close()

	_, err = NewClient(garbled.URL, "", zerolog.Nop()).Lookup(context.Background(), "CGC", "1")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
