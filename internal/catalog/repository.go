package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Lixing-Zhang/campus-food-finder/internal/menuindex"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

var (
	ErrNotLoaded        = errors.New("catalog not loaded")
	ErrBuildingNotFound = errors.New("building not found")
	ErrVendorNotFound   = errors.New("vendor not found")
)

var (
	catalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodfinder",
		Name:      "catalog_menu_items",
		Help:      "Menu items in the active catalog snapshot.",
	})

	catalogVendors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodfinder",
		Name:      "catalog_vendors",
		Help:      "Vendors in the active catalog snapshot.",
	})

	catalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodfinder",
			Name:      "catalog_reloads_total",
			Help:      "Catalog reload attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Snapshot is one immutable load of the catalog
type Snapshot struct {
	ID        string
	LoadedAt  time.Time
	Buildings []models.Building
	Index     *menuindex.Index
}

// Stats summarises a snapshot
type Stats struct {
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Sources    []string  `json:"sources"`
	Buildings  int       `json:"buildings"`
	Vendors    int       `json:"vendors"`
	MenuItems  int       `json:"menu_items"`
}

// Repository serves the current catalog snapshot and swaps in new ones on
// reload. Readers never block on a reload in progress.
type Repository struct {
	sources []Source
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewRepository creates a repository over sources. Call Reload before use.
func NewRepository(sources []Source, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		sources: sources,
		logger:  logger,
	}
}

// NewStaticRepository creates a repository already holding buildings
func NewStaticRepository(buildings []models.Building) *Repository {
	r := NewRepository(nil, nil)
	r.store(buildings)
	return r
}

// Reload loads every source and replaces the snapshot. On failure the
// previous snapshot stays active.
func (r *Repository) Reload(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	buildings, err := LoadAll(ctx, r.sources)
	if err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		r.logger.Error("catalog reload failed", "error", err, "sources", len(r.sources))
		return nil, err
	}

	snap := r.store(buildings)
	catalogReloads.WithLabelValues("success").Inc()

	r.logger.Info("catalog loaded",
		"snapshot_id", snap.ID,
		"buildings", len(snap.Buildings),
		"menu_items", snap.Index.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

func (r *Repository) store(buildings []models.Building) *Snapshot {
	snap := &Snapshot{
		ID:        uuid.New().String(),
		LoadedAt:  time.Now().UTC(),
		Buildings: buildings,
		Index:     menuindex.New(buildings),
	}
	r.current.Store(snap)

	vendors := 0
	for _, b := range buildings {
		vendors += len(b.Vendors)
	}
	catalogVendors.Set(float64(vendors))
	catalogItems.Set(float64(snap.Index.Len()))

	return snap
}

// Snapshot returns the active snapshot, or nil before the first load
func (r *Repository) Snapshot() *Snapshot {
	return r.current.Load()
}

// Index returns the active menu index, or nil before the first load
func (r *Repository) Index() *menuindex.Index {
	snap := r.current.Load()
	if snap == nil {
		return nil
	}
	return snap.Index
}

// Buildings returns all buildings in catalog order
func (r *Repository) Buildings(ctx context.Context) ([]models.Building, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap.Buildings, nil
}

// Building returns a building by its ID
func (r *Repository) Building(ctx context.Context, id string) (*models.Building, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	for i := range snap.Buildings {
		if snap.Buildings[i].ID == id {
			return &snap.Buildings[i], nil
		}
	}
	return nil, ErrBuildingNotFound
}

// Vendor returns a vendor by building and vendor ID
func (r *Repository) Vendor(ctx context.Context, buildingID, vendorID string) (*models.Building, *models.FoodVendor, error) {
	building, err := r.Building(ctx, buildingID)
	if err != nil {
		return nil, nil, err
	}
	vendor, ok := building.Vendor(vendorID)
	if !ok {
		return nil, nil, ErrVendorNotFound
	}
	return building, vendor, nil
}

// Stats describes the active snapshot
func (r *Repository) Stats() Stats {
	stats := Stats{Sources: make([]string, len(r.sources))}
	for i, s := range r.sources {
		stats.Sources[i] = s.String()
	}

	snap := r.current.Load()
	if snap == nil {
		return stats
	}

	stats.SnapshotID = snap.ID
	stats.LoadedAt = snap.LoadedAt
	stats.Buildings = len(snap.Buildings)
	stats.MenuItems = snap.Index.Len()
	for _, b := range snap.Buildings {
		stats.Vendors += len(b.Vendors)
	}
	return stats
}
