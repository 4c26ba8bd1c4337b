// Package handlers provides HTTP handlers for the curated key facts table.
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/rs/zerolog"
)

// Handler handles key facts HTTP requests
type Handler struct {
	table domain.KeyFactsLookup
	log   zerolog.Logger
}

// NewHandler creates a new key facts handler
func NewHandler(table domain.KeyFactsLookup, log zerolog.Logger) *Handler {
	return &Handler{
		table: table,
		log:   log.With().Str("handler", "keyfacts").Logger(),
	}
}

// RegisterRoutes registers key facts routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/keyfacts", h.HandleLookup)
}

// HandleLookup answers GET /keyfacts?title=...&issue=...
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	issue := strings.TrimSpace(r.URL.Query().Get("issue"))
	if title == "" {
		h.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	facts, found := h.table.Lookup(title, issue)
	if facts == nil {
		facts = []string{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":    title,
		"issue":    issue,
		"found":    found,
		"keyFacts": facts,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
