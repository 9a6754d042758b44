package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// statsReporter describes the active catalog snapshot
type statsReporter interface {
	Stats() catalog.Stats
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog statsReporter
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog statsReporter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	MenuItems  int       `json:"menu_items"`
}

// ServeHTTP handles health check requests. It reports 503 until a catalog
// snapshot has been loaded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.catalog.Stats()

	response := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Version:    Version,
		SnapshotID: stats.SnapshotID,
		MenuItems:  stats.MenuItems,
	}

	status := http.StatusOK
	if stats.SnapshotID == "" {
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response, h.logger)
}
