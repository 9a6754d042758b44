package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
)

// catalogAdmin is the part of the repository the admin endpoints use
type catalogAdmin interface {
	Reload(ctx context.Context) (*catalog.Snapshot, error)
	Stats() catalog.Stats
}

// CatalogHandler handles catalog inspection and reloads
type CatalogHandler struct {
	catalog catalogAdmin
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog catalogAdmin, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// GetStats handles GET /api/catalog
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.catalog.Stats(), h.logger)
}

// Reload handles POST /api/catalog/reload
// On failure the previous snapshot stays active and 502 is returned.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.catalog.Reload(r.Context())
	if err != nil {
		h.logger.Error("catalog reload failed", "error", err)
		WriteError(w, http.StatusBadGateway, "Catalog reload failed: "+err.Error(), h.logger)
		return
	}

	h.logger.Info("catalog reloaded via api", "snapshot_id", snap.ID)
	WriteJSON(w, http.StatusOK, h.catalog.Stats(), h.logger)
}
