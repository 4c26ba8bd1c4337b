// Package handlers provides HTTP handlers for item valuation and collection totals.
package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/valuation"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ValueRequest is the body of POST /valuation/value
type ValueRequest struct {
	PriceRecord    *domain.PriceRecord `json:"priceRecord"`
	Grade          *float64            `json:"grade"`
	IsEncapsulated bool                `json:"isEncapsulated"`
}

// CollectionRequest is the body of the collection endpoints
type CollectionRequest struct {
	Items []valuation.Item `json:"items"`
}

// Handler handles valuation HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new valuation handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "valuation").Logger(),
	}
}

// RegisterRoutes registers valuation and collection routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/valuation/value", h.HandleValue)

	r.Route("/collection", func(r chi.Router) {
		r.Post("/totals", h.HandleTotals)
		r.Post("/export", h.HandleExport)
	})
}

// HandleValue returns the value of a price record at a grade
func (h *Handler) HandleValue(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	value := valuation.GetValue(valuation.Item{
		Grade:          req.Grade,
		IsEncapsulated: req.IsEncapsulated,
		PriceRecord:    req.PriceRecord,
	})

	h.writeJSON(w, http.StatusOK, map[string]float64{"value": value})
}

// HandleTotals sums a collection
func (h *Handler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.writeJSON(w, http.StatusOK, valuation.Totals(req.Items))
}

// HandleExport returns the collection as an XLSX download
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var buf bytes.Buffer
	if err := valuation.ExportWorkbook(req.Items, &buf); err != nil {
		h.log.Error().Err(err).Int("items", len(req.Items)).Msg("Failed to export collection")
		h.writeError(w, http.StatusInternalServerError, "failed to export collection")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="collection.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Error().Err(err).Msg("Failed to write export")
	}
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
