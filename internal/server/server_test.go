package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/longboxhq/longbox/internal/config"
	"github.com/longboxhq/longbox/internal/di"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		DataDir: t.TempDir(),
		Port:    8080,
		Cache: config.CacheConfig{
			Backend:         config.CacheBackendSQLite,
			TTLAIAnalyze:    30 * 24 * time.Hour,
			TTLEbayPrice:    24 * time.Hour,
			CleanupSchedule: "0 3 * * *",
		},
	}

	container, err := di.Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Shutdown(context.Background(), zerolog.Nop()) })

	return New(Config{
		Log:       zerolog.Nop(),
		Port:      cfg.Port,
		DevMode:   true,
		Container: container,
	})
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.True(t, body.CacheAvailable)
}

func TestSystemStatus(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/system/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sqlite", body.CacheBackend)
	assert.True(t, body.CacheAvailable)
	assert.Greater(t, body.Goroutines, 0)
	assert.GreaterOrEqual(t, body.RAMPercent, 0.0)
}

func TestHealth_DegradedWithoutCache(t *testing.T) {
	h := NewSystemHandlers(nil, "sqlite", zerolog.Nop())

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	// one resolution so the pricing series exist
	serve(s, httptest.NewRequest(http.MethodPost, "/api/prices/resolve",
		strings.NewReader(`{"title":"Saga","issueNumber":"1","grade":9.8}`)))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "longbox_price_resolutions_total")
}

func TestRoutesMounted(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		ctype  string
		status int
	}{
		{"price resolve without adapters", http.MethodPost, "/api/prices/resolve", `{"title":"Saga","issueNumber":"1","grade":9.8}`, "application/json", http.StatusOK},
		{"price resolve validation", http.MethodPost, "/api/prices/resolve", `{}`, "application/json", http.StatusBadRequest},
		{"key facts", http.MethodGet, "/api/keyfacts?title=Action+Comics&issue=1", "", "", http.StatusOK},
		{"metadata resolve", http.MethodPost, "/api/metadata/resolve", `{"title":"Batman","issueNumber":"1"}`, "application/json", http.StatusOK},
		{"valuation", http.MethodPost, "/api/valuation/value", `{"priceRecord":null}`, "application/json", http.StatusOK},
		{"collection totals", http.MethodPost, "/api/collection/totals", `{"items":[]}`, "application/json", http.StatusOK},
		{"cover analysis without vision", http.MethodPost, "/api/analysis/cover", "\x89PNG\r\n\x1a\nxxxx", "image/png", http.StatusServiceUnavailable},
		{"unknown route", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}

			w := serve(s, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/prices/resolve", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := serve(s, req)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
