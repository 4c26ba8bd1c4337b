// Package handlers provides HTTP handlers for cover analysis.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/longboxhq/longbox/internal/modules/analysis"
	"github.com/rs/zerolog"
)

// MaxImageBytes caps an uploaded cover photo
const MaxImageBytes = 10 << 20

// CoverAnalyzer is the part of the analysis service the handlers need
type CoverAnalyzer interface {
	AnalyzeCover(ctx context.Context, image []byte, mediaType string) (*analysis.Result, error)
}

// Handler handles cover analysis HTTP requests
type Handler struct {
	analyzer CoverAnalyzer
	log      zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(analyzer CoverAnalyzer, log zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		log:      log.With().Str("handler", "analysis").Logger(),
	}
}

// RegisterRoutes registers analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Post("/cover", h.HandleAnalyzeCover)
	})
}

// HandleAnalyzeCover accepts either a multipart form with an "image" file or a raw
// image body with an image/* content type.
func (h *Handler) HandleAnalyzeCover(w http.ResponseWriter, r *http.Request) {
	image, mediaType, err := readImage(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analyzer.AnalyzeCover(r.Context(), image, mediaType)
	if err != nil {
		if errors.Is(err, domain.ErrAdapterUnavailable) {
			h.writeError(w, http.StatusServiceUnavailable, "cover analysis is not configured")
			return
		}
		h.log.Error().Err(err).Msg("Cover analysis failed")
		h.writeError(w, http.StatusInternalServerError, "failed to analyze cover")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func readImage(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
			return nil, "", errors.New("invalid multipart form")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", errors.New("image file is required")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
		if err != nil {
			return nil, "", errors.New("failed to read image")
		}
		return checkImage(data, sniffMediaType(data, header.Header.Get("Content-Type")))
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return nil, "", errors.New("expected an image body or a multipart form")
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", errors.New("failed to read image")
	}
	return checkImage(data, mediaType)
}

// sniffMediaType trusts a declared image/* type, otherwise detects one from the bytes.
// "" lets the cover reader pick its default.
func sniffMediaType(data []byte, declared string) string {
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if detected := http.DetectContentType(data); strings.HasPrefix(detected, "image/") {
		return detected
	}
	return ""
}

func checkImage(data []byte, mediaType string) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("image is empty")
	}
	if len(data) > MaxImageBytes {
		return nil, "", errors.New("image is too large")
	}
	return data, mediaType, nil
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
