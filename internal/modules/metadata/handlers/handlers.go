// Package handlers provides HTTP handlers for metadata resolution.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/metadata"
	"github.com/rs/zerolog"
)

// Resolver is the part of the metadata service the handlers need
type Resolver interface {
	Resolve(ctx context.Context, details domain.ComicDetails) *metadata.Resolution
}

// Handler handles metadata HTTP requests
type Handler struct {
	resolver Resolver
	log      zerolog.Logger
}

// NewHandler creates a new metadata handler
func NewHandler(resolver Resolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		log:      log.With().Str("handler", "metadata").Logger(),
	}
}

// RegisterRoutes registers metadata routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/metadata", func(r chi.Router) {
		r.Post("/resolve", h.HandleResolve)
	})
}

// HandleResolve runs the metadata waterfall over the posted comic details
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var details domain.ComicDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(details.Title) == "" {
		h.writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	h.writeJSON(w, http.StatusOK, h.resolver.Resolve(r.Context(), details))
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
