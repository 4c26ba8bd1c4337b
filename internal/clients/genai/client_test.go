package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/longboxhq/longbox/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyServer answers every request with text as the model's reply and records the last request.
func replyServer(t *testing.T, text string, last *messagesRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, messagesPath, r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		if last != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(last))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]string{{"type": "text", "text": text}},
			"stop_reason": "end_turn",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestEstimatePrices_Success(t *testing.T) {
	var req messagesRequest
	server := replyServer(t, "Here you go:\n```json\n"+`{
		"recentSales": [{"price": 420, "date": "2026-05-01", "source": ""}],
		"gradeEstimates": [{"grade": 9.8, "label": "NM/M", "rawValue": 500, "slabbedValue": 800}]
	}`+"\n```", &req)

	client := NewClient(server.URL, "key", "test-model", zerolog.Nop())
	est, err := client.EstimatePrices(context.Background(), "Amazing Spider-Man #300, raw, grade 9.4")
	require.NoError(t, err)

	assert.Equal(t, "test-model", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "Amazing Spider-Man #300, raw, grade 9.4", req.Messages[0].Content[0].Text)

	require.Len(t, est.RecentSales, 1)
	assert.Equal(t, 420.0, est.RecentSales[0].Price)
	assert.Equal(t, "ai estimate", est.RecentSales[0].Source)
	require.Len(t, est.GradeEstimates, 1)
	assert.Equal(t, 800.0, est.GradeEstimates[0].SlabbedValue)
}

func TestEstimatePrices_EmptyArraysAreValid(t *testing.T) {
	server := replyServer(t, `{"recentSales": [], "gradeEstimates": []}`, nil)

	est, err := NewClient(server.URL, "key", "m", zerolog.Nop()).EstimatePrices(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, est.RecentSales)
	assert.Empty(t, est.GradeEstimates)
}

func TestParsePriceEstimate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no json", "I cannot help with that."},
		{"truncated", `{"recentSales": [`},
		{"missing gradeEstimates", `{"recentSales": []}`},
		{"sale without date", `{"recentSales": [{"price": 1}], "gradeEstimates": []}`},
		{"wrong type", `{"recentSales": "lots", "gradeEstimates": []}`},
		{"grade missing", `{"recentSales": [], "gradeEstimates": [{"rawValue": 5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePriceEstimate(tt.text)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "key", "m", zerolog.Nop()).EstimatePrices(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "slow down")
}

func TestComplete_EmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": [], "stop_reason": "max_tokens"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "key", "m", zerolog.Nop()).EstimatePrices(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCompleteMetadata(t *testing.T) {
	var req messagesRequest
	server := replyServer(t, `{"writer": "Stan Lee", "keyInfo": ["1st appearance of the X-Men"], "releaseYear": 1963}`, &req)

	year := 1963
	details := domain.ComicDetails{Title: "X-Men", IssueNumber: "1", Publisher: "Marvel", ReleaseYear: &year}

	out, err := NewClient(server.URL, "key", "m", zerolog.Nop()).CompleteMetadata(context.Background(), details, []string{"writer", "keyInfo"})
	require.NoError(t, err)

	assert.Equal(t, "Stan Lee", out.Writer)
	assert.Equal(t, []string{"1st appearance of the X-Men"}, out.KeyInfo)
	assert.Contains(t, req.Messages[0].Content[0].Text, "X-Men #1, published by Marvel, 1963")
	assert.Contains(t, req.Messages[0].Content[0].Text, "Provide: writer, keyInfo")
}

func TestCompleteMetadata_NothingMissingSkipsCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	out, err := NewClient(server.URL, "key", "m", zerolog.Nop()).CompleteMetadata(context.Background(), domain.ComicDetails{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.False(t, called)
}

func TestReadCover(t *testing.T) {
	var req messagesRequest
	server := replyServer(t, `{"title": " Amazing  Spider-Man ", "issueNumber": "#300", "grade": 9.8,
		"isSlabbed": true, "gradingCompany": "CGC", "certificationNumber": "123", "releaseYear": null}`, &req)

	details, err := NewClient(server.URL, "key", "m", zerolog.Nop()).ReadCover(context.Background(), []byte{0xff, 0xd8}, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "Amazing Spider-Man", details.Title)
	assert.Equal(t, "300", details.IssueNumber)
	require.NotNil(t, details.Grade)
	assert.Equal(t, 9.8, *details.Grade)
	assert.True(t, details.IsSlabbed)
	assert.Nil(t, details.ReleaseYear)

	require.Len(t, req.Messages[0].Content, 2)
	img := req.Messages[0].Content[0]
	assert.Equal(t, "image", img.Type)
	require.NotNil(t, img.Source)
	assert.Equal(t, "image/png", img.Source.MediaType)
	assert.Equal(t, "/9g=", img.Source.Data)
}

func TestReadCover_Rejects(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", "m", zerolog.Nop())
	_, err := client.ReadCover(context.Background(), nil, "")
	assert.Error(t, err)

	_, err = parseCover(`{"issueNumber": "1"}`)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse, "title is required")
}
