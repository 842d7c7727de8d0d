package handlers

import (
	"net/http"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/metrics"
)

// MetricsSource exposes collected analysis metrics.
type MetricsSource interface {
	Metrics() *metrics.Stats
}

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	metrics MetricsSource
	version string
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(m MetricsSource, version string) *SystemHandler {
	return &SystemHandler{metrics: m, version: version}
}

// GetMetrics returns latency and volume metrics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.metrics.Metrics())
}

// GetVersion returns the server version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"version": h.version})
}
