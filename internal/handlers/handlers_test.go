package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
	"github.com/Lixing-Zhang/campus-food-finder/internal/service"
	"github.com/Lixing-Zhang/campus-food-finder/pkg/logger"
)

func testBuildings() []models.Building {
	return []models.Building{
		{
			ID:   "SUB",
			Name: "Student Union Building",
			Vendors: []models.FoodVendor{{
				ID:    "cafe",
				Name:  "Union Cafe",
				Hours: hours.VendorHours{hours.Monday: {hours.MustWindow(9*60, 17*60)}},
				Menu: models.Menu{Sections: []models.MenuSection{{
					Name: "Drinks",
					Items: []models.MenuItem{
						{ID: "latte", Name: "Oat Latte", Price: 525, Tags: []models.Tag{models.TagVegan}},
						{ID: "mocha", Name: "Mocha", Price: 575},
					},
				}}},
			}},
		},
	}
}

// newTestRouter wires the read-only routes the way the server does
func newTestRouter(repo *catalog.Repository, now hours.Instant) http.Handler {
	log := logger.New("error")
	clock := hours.FixedClock(now)

	vendorHandler := NewVendorHandler(service.NewVendorService(repo, clock), log)
	searchHandler := NewSearchHandler(service.NewSearchService(repo, clock), log)

	r := chi.NewRouter()
	r.Get("/health", NewHealthHandler(repo, log).ServeHTTP)
	r.Get("/api/buildings", vendorHandler.ListBuildings)
	r.Get("/api/buildings/{buildingId}/vendors/{vendorId}", vendorHandler.GetVendor)
	r.Get("/api/search", searchHandler.Search)
	r.Get("/api/tags", searchHandler.ListTags)
	return r
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		repo       *catalog.Repository
		wantStatus int
		wantState  string
	}{
		{"loaded", catalog.NewStaticRepository(testBuildings()), http.StatusOK, "healthy"},
		{"not loaded", catalog.NewRepository(nil, nil), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.repo, hours.At(hours.Monday, 10, 0))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("expected status %q, got %q", tt.wantState, resp.Status)
			}
			if resp.Version != Version {
				t.Errorf("expected version %s, got %s", Version, resp.Version)
			}
		})
	}
}

func TestListBuildings(t *testing.T) {
	r := newTestRouter(catalog.NewStaticRepository(testBuildings()), hours.At(hours.Monday, 10, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/buildings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var buildings []service.BuildingSummary
	if err := json.NewDecoder(w.Body).Decode(&buildings); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(buildings) != 1 || len(buildings[0].Vendors) != 1 {
		t.Fatalf("expected one building with one vendor, got %+v", buildings)
	}

	cafe := buildings[0].Vendors[0]
	if !cafe.Open || cafe.NextChange != "Closes 5:00 PM" {
		t.Errorf("expected open cafe closing at 5:00 PM, got %+v", cafe)
	}
}

func TestListBuildings_NotLoaded(t *testing.T) {
	r := newTestRouter(catalog.NewRepository(nil, nil), hours.At(hours.Monday, 10, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/buildings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestGetVendor(t *testing.T) {
	r := newTestRouter(catalog.NewStaticRepository(testBuildings()), hours.At(hours.Sunday, 20, 0))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"found", "/api/buildings/SUB/vendors/cafe", http.StatusOK, ""},
		{"unknown building", "/api/buildings/ECS/vendors/cafe", http.StatusNotFound, "Building not found"},
		{"unknown vendor", "/api/buildings/SUB/vendors/grill", http.StatusNotFound, "Vendor not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			if tt.wantStatus == http.StatusOK && !strings.Contains(w.Body.String(), `"day":"Monday"`) {
				t.Errorf("expected named transition day in %s", w.Body.String())
			}

			if tt.wantError != "" {
				var resp map[string]string
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp["error"] != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, resp["error"])
				}
				return
			}

			var detail service.VendorDetail
			if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if detail.Status != service.StatusClosed {
				t.Errorf("expected closed vendor, got %s", detail.Status)
			}
			if detail.NextChange != "Opens Monday 9:00 AM" {
				t.Errorf("unexpected next change %q", detail.NextChange)
			}
			if detail.Transition.At.Day != hours.Monday {
				t.Errorf("expected transition on Monday, got %v", detail.Transition.At.Day)
			}
			if !detail.Week[0].Today {
				t.Error("expected Sunday to be marked as today")
			}
		})
	}
}

func TestSearch(t *testing.T) {
	r := newTestRouter(catalog.NewStaticRepository(testBuildings()), hours.At(hours.Monday, 10, 0))

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"text match", "q=latte", http.StatusOK, 1},
		{"no query", "", http.StatusOK, 0},
		{"tag filter", "q=a&tag=vegan", http.StatusOK, 1},
		{"building filter", "q=a&building=LIB,ECS", http.StatusOK, 0},
		{"open only", "q=a&open=true", http.StatusOK, 2},
		{"unknown tag", "q=a&tag=keto", http.StatusBadRequest, 0},
		{"bad open flag", "q=a&open=maybe", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/search?"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp service.SearchResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Count != tt.wantCount || len(resp.Results) != tt.wantCount {
				t.Errorf("expected %d results, got %d", tt.wantCount, resp.Count)
			}
		})
	}
}

func TestSearch_ClosedVendorsExcluded(t *testing.T) {
	r := newTestRouter(catalog.NewStaticRepository(testBuildings()), hours.At(hours.Tuesday, 10, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=latte&open=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp service.SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("expected no results on Tuesday, got %d", resp.Count)
	}
}

func TestListTags(t *testing.T) {
	r := newTestRouter(catalog.NewStaticRepository(testBuildings()), hours.At(hours.Monday, 10, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"dairy-free"`) {
		t.Errorf("expected dairy-free group in %s", w.Body.String())
	}
}

type failingCatalog struct {
	stats catalog.Stats
}

func (f failingCatalog) Reload(ctx context.Context) (*catalog.Snapshot, error) {
	return nil, errors.New("source offline")
}

func (f failingCatalog) Stats() catalog.Stats { return f.stats }

func TestCatalogReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "campus.json")
	doc := `{"buildings": [{"id": "SUB", "name": "Student Union Building", "vendors": [{"id": "cafe", "name": "Union Cafe"}]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	log := logger.New("error")
	repo := catalog.NewRepository([]catalog.Source{catalog.FileSource{Path: path}}, log)
	handler := NewCatalogHandler(repo, log)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/reload", nil)
	w := httptest.NewRecorder()
	handler.Reload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats catalog.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.SnapshotID == "" || stats.Buildings != 1 || stats.Vendors != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w = httptest.NewRecorder()
	handler.GetStats(w, req)

	if !strings.Contains(w.Body.String(), stats.SnapshotID) {
		t.Errorf("expected snapshot %s in %s", stats.SnapshotID, w.Body.String())
	}
}

func TestCatalogReload_Failure(t *testing.T) {
	handler := NewCatalogHandler(failingCatalog{}, logger.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/reload", nil)
	w := httptest.NewRecorder()
	handler.Reload(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "source offline") {
		t.Errorf("expected failure reason in %s", w.Body.String())
	}
}
