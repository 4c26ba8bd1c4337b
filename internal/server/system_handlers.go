package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers serves health and status endpoints
type SystemHandlers struct {
	cache        domain.CacheStore
	cacheBackend string
	startedAt    time.Time
	log          zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(cache domain.CacheStore, cacheBackend string, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		cache:        cache,
		cacheBackend: cacheBackend,
		startedAt:    time.Now(),
		log:          log.With().Str("component", "system_handlers").Logger(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status         string `json:"status"` // "healthy" or "degraded"
	Service        string `json:"service"`
	CacheAvailable bool   `json:"cache_available"`
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	CacheBackend   string  `json:"cache_backend"`
	CacheAvailable bool    `json:"cache_available"`
	CPUPercent     float64 `json:"cpu_percent"`
	RAMPercent     float64 `json:"ram_percent"`
	Goroutines     int     `json:"goroutines"`
	GoVersion      string  `json:"go_version"`
}

// HandleHealth reports whether the service can reach its cache.
// A missing cache degrades the service but never takes it down, so this is always 200.
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	available := h.cacheAvailable(r.Context())

	status := "healthy"
	if !available {
		status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:         status,
		Service:        "longbox",
		CacheAvailable: available,
	})
}

// HandleSystemStatus returns process and host status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	available := h.cacheAvailable(r.Context())
	cpuPercent, ramPercent := h.getSystemStats()

	status := "healthy"
	if !available {
		status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:         status,
		UptimeSeconds:  int64(time.Since(h.startedAt).Seconds()),
		CacheBackend:   h.cacheBackend,
		CacheAvailable: available,
		CPUPercent:     cpuPercent,
		RAMPercent:     ramPercent,
		Goroutines:     runtime.NumGoroutine(),
		GoVersion:      runtime.Version(),
	})
}

func (h *SystemHandlers) cacheAvailable(ctx context.Context) bool {
	return h.cache != nil && h.cache.IsAvailable(ctx)
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms so the endpoint stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
