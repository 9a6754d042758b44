package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/campus-food-finder/internal/search"
	"github.com/Lixing-Zhang/campus-food-finder/internal/service"
)

// SearchHandler handles menu search HTTP requests
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// Search handles GET /api/search?q=latte&building=SUB,ECS&tag=vegan&open=true
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.SearchRequest{
		Query:     query.Get("q"),
		Buildings: splitList(query["building"]),
		Tags:      query["tag"],
	}

	if raw := query.Get("open"); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("invalid open filter", "open", raw, "error", err)
			WriteError(w, http.StatusBadRequest, "open must be true or false", h.logger)
			return
		}
		req.OpenOnly = open
	}

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrUnknownTagGroup):
			h.logger.Info("unknown tag group", "tags", req.Tags)
			WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		case errors.Is(err, service.ErrCatalogUnavailable):
			h.logger.Warn("search before catalog load")
			WriteError(w, http.StatusServiceUnavailable, "Catalog not loaded", h.logger)
		default:
			h.logger.Error("search failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// ListTags handles GET /api/tags
func (h *SearchHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.TagGroups(), h.logger)
}

// splitList flattens repeated and comma separated query values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
