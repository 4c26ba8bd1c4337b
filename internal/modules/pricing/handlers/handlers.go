// Package handlers provides HTTP handlers for price resolution.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/validation"
	"github.com/rs/zerolog"
)

// PriceResolver is the part of the resolver the handlers need
type PriceResolver interface {
	Resolve(ctx context.Context, q domain.PriceQuery) *domain.PriceRecord
}

// ResolveRequest is the body of POST /prices/resolve
type ResolveRequest struct {
	Title          string  `json:"title" validate:"required"`
	IssueNumber    string  `json:"issueNumber"`
	Grade          float64 `json:"grade"`
	IsEncapsulated bool    `json:"isEncapsulated"`
	GradingCompany string  `json:"gradingCompany"`
}

// Handler handles price HTTP requests
type Handler struct {
	resolver PriceResolver
	log      zerolog.Logger
}

// NewHandler creates a new price handler
func NewHandler(resolver PriceResolver, log zerolog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		log:      log.With().Str("handler", "prices").Logger(),
	}
}

// RegisterRoutes registers price routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/prices", func(r chi.Router) {
		r.Post("/resolve", h.HandleResolve)
	})
}

// HandleResolve resolves the price record for a comic at a grade.
// An unpriced comic is a 200 with a null estimatedValue.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  verr.Error(),
				"fields": verr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := h.resolver.Resolve(r.Context(), domain.PriceQuery{
		Title:          req.Title,
		IssueNumber:    req.IssueNumber,
		Grade:          req.Grade,
		IsEncapsulated: req.IsEncapsulated,
		GradingCompany: req.GradingCompany,
	})

	h.writeJSON(w, http.StatusOK, record)
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
