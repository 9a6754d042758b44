package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
	"github.com/Lixing-Zhang/campus-food-finder/internal/service"
)

// VendorHandler handles building and vendor HTTP requests
type VendorHandler struct {
	service *service.VendorService
	logger  *slog.Logger
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(service *service.VendorService, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{
		service: service,
		logger:  logger,
	}
}

// ListBuildings handles GET /api/buildings
func (h *VendorHandler) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.service.ListBuildings(r.Context())
	if err != nil {
		h.writeLookupError(w, err, "failed to list buildings")
		return
	}

	WriteJSON(w, http.StatusOK, buildings, h.logger)
}

// GetVendor handles GET /api/buildings/{buildingId}/vendors/{vendorId}
// - 200: vendor detail with hours and menu
// - 404: building or vendor not found
// - 503: catalog not loaded yet
func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingId")
	vendorID := chi.URLParam(r, "vendorId")

	detail, err := h.service.GetVendor(r.Context(), buildingID, vendorID)
	if err != nil {
		h.writeLookupError(w, err, "failed to get vendor", "buildingId", buildingID, "vendorId", vendorID)
		return
	}

	WriteJSON(w, http.StatusOK, detail, h.logger)
}

func (h *VendorHandler) writeLookupError(w http.ResponseWriter, err error, msg string, args ...any) {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, catalog.ErrBuildingNotFound):
		h.logger.Info(msg, args...)
		WriteError(w, http.StatusNotFound, "Building not found", h.logger)
	case errors.Is(err, catalog.ErrVendorNotFound):
		h.logger.Info(msg, args...)
		WriteError(w, http.StatusNotFound, "Vendor not found", h.logger)
	case errors.Is(err, catalog.ErrNotLoaded):
		h.logger.Warn(msg, args...)
		WriteError(w, http.StatusServiceUnavailable, "Catalog not loaded", h.logger)
	default:
		h.logger.Error(msg, args...)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
