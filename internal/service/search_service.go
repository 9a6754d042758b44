package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
	"github.com/Lixing-Zhang/campus-food-finder/internal/search"
)

var ErrCatalogUnavailable = errors.New("catalog is not loaded")

// SearchRequest carries one search from the overlay
type SearchRequest struct {
	Query     string
	Buildings []string
	Tags      []string // tag group names, e.g. "vegan"
	OpenOnly  bool
}

// SearchHit is one matching item with its vendor
type SearchHit struct {
	BuildingID   string       `json:"building_id"`
	BuildingName string       `json:"building_name"`
	VendorID     string       `json:"vendor_id"`
	VendorName   string       `json:"vendor_name"`
	VendorOpen   bool         `json:"vendor_open"`
	Section      string       `json:"section"`
	ItemID       string       `json:"item_id"`
	ItemName     string       `json:"item_name"`
	Description  string       `json:"description,omitempty"`
	Price        string       `json:"price"`
	Tags         []models.Tag `json:"tags,omitempty"`
}

// SearchResponse is the ordered result of a search
type SearchResponse struct {
	Query     string      `json:"query"`
	Buildings []string    `json:"buildings,omitempty"`
	Tags      []string    `json:"tags,omitempty"`
	OpenOnly  bool        `json:"open_only"`
	Count     int         `json:"count"`
	Results   []SearchHit `json:"results"`
}

// SearchService handles business logic for menu search
type SearchService struct {
	index search.IndexSource
	clock hours.Clock
}

// NewSearchService creates a new search service
func NewSearchService(index search.IndexSource, clock hours.Clock) *SearchService {
	return &SearchService{
		index: index,
		clock: clock,
	}
}

// TagGroups returns the dietary filters users can toggle
func (s *SearchService) TagGroups() []search.TagGroup {
	return search.Groups
}

// Search resolves the request's filters and runs them against the current
// catalog snapshot
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	idx := s.index.Index()
	if idx == nil {
		return nil, ErrCatalogUnavailable
	}

	groups, names, err := resolveGroups(req.Tags)
	if err != nil {
		return nil, err
	}

	// One instant for filtering and for the per-hit open flag
	now := s.clock.Now()
	facade := search.NewFacade(search.StaticIndex{Idx: idx}, hours.FixedClock(now))
	facade.SetBuildingFilters(req.Buildings)
	for _, g := range groups {
		facade.ToggleTagGroup(g)
	}

	entries := facade.Search(req.Query, req.OpenOnly)

	buildingNames := make(map[string]string)
	for _, b := range idx.Buildings() {
		buildingNames[b.ID] = b.Name
	}

	resp := &SearchResponse{
		Query:     req.Query,
		Buildings: facade.BuildingFilters(),
		Tags:      names,
		OpenOnly:  req.OpenOnly,
		Count:     len(entries),
		Results:   make([]SearchHit, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Results = append(resp.Results, SearchHit{
			BuildingID:   e.BuildingID,
			BuildingName: buildingNames[e.BuildingID],
			VendorID:     e.Vendor.ID,
			VendorName:   e.Vendor.Name,
			VendorOpen:   hours.IsOpen(e.Vendor.Hours, now),
			Section:      e.Section,
			ItemID:       e.Item.ID,
			ItemName:     e.Item.Name,
			Description:  e.Item.Description,
			Price:        e.Item.Price.String(),
			Tags:         e.Item.Tags,
		})
	}

	return resp, nil
}

// resolveGroups looks up each named group once, keeping request order
func resolveGroups(names []string) ([]search.TagGroup, []string, error) {
	seen := make(map[string]bool)
	var groups []search.TagGroup
	var resolved []string

	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			g, err := search.LookupGroup(name)
			if err != nil {
				return nil, nil, err
			}
			if seen[g.Name] {
				continue
			}
			seen[g.Name] = true
			groups = append(groups, g)
			resolved = append(resolved, g.Name)
		}
	}
	return groups, resolved, nil
}
