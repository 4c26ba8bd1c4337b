package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/longboxhq/longbox/internal/modules/keyfacts"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *chi.Mux {
	table := keyfacts.New([]keyfacts.Entry{
		{Title: "X-Men", Issue: "1", KeyFacts: []string{"1st appearance of the X-Men"}},
	}, zerolog.Nop())
	svc := metadata.NewService(table, nil, nil, zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func TestHandleResolve(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/metadata/resolve",
		strings.NewReader(`{"title":"The X-Men","issueNumber":"#001"}`))
	setupRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body metadata.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"1st appearance of the X-Men"}, body.Details.KeyInfo)
	assert.Equal(t, metadata.TierDatabase, body.Sources["keyInfo"])
	assert.Equal(t, metadata.TierVision, body.Sources["title"])
}

func TestHandleResolve_BadRequests(t *testing.T) {
	router := setupRouter()

	for name, payload := range map[string]string{
		"invalid json":  `{"title":`,
		"missing title": `{"issueNumber":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metadata/resolve", strings.NewReader(payload)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
