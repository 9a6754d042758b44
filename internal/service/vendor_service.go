package service

import (
	"context"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

// CatalogRepository is the read side of the catalog the services need
type CatalogRepository interface {
	Buildings(ctx context.Context) ([]models.Building, error)
	Vendor(ctx context.Context, buildingID, vendorID string) (*models.Building, *models.FoodVendor, error)
}

// Status strings shown next to a vendor's name
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// VendorSummary is a vendor as listed under its building
type VendorSummary struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Image      string             `json:"image,omitempty"`
	Location   models.Coordinates `json:"location"`
	Open       bool               `json:"open"`
	Status     string             `json:"status"`
	NextChange string             `json:"next_change"`
}

// BuildingSummary is a building with its vendors' current state
type BuildingSummary struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Location models.Coordinates `json:"location"`
	Vendors  []VendorSummary    `json:"vendors"`
}

// DayHours is one row of the weekly hours list
type DayHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
	Today bool   `json:"today"`
}

// ItemView is a menu item formatted for display
type ItemView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       string       `json:"price"`
	PriceCents  models.Cents `json:"price_cents"`
	Tags        []models.Tag `json:"tags,omitempty"`
	TagsText    string       `json:"tags_text,omitempty"`
}

// SectionView is a menu section formatted for display
type SectionView struct {
	Name  string     `json:"name"`
	Items []ItemView `json:"items"`
}

// VendorDetail is everything the vendor detail view renders
type VendorDetail struct {
	BuildingID   string             `json:"building_id"`
	BuildingName string             `json:"building_name"`
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Image        string             `json:"image,omitempty"`
	Location     models.Coordinates `json:"location"`
	Open         bool               `json:"open"`
	Status       string             `json:"status"`
	NextChange   string             `json:"next_change"`
	Transition   hours.Transition   `json:"transition"`
	Week         []DayHours         `json:"week"`
	// DefaultSection is the section shown first, the first on the menu
	DefaultSection string        `json:"default_section,omitempty"`
	Sections       []SectionView `json:"sections"`
	// Previous and next vendor in the same building, wrapping around
	PreviousVendorID string `json:"previous_vendor_id"`
	NextVendorID     string `json:"next_vendor_id"`
}

// VendorService handles business logic for vendors
type VendorService struct {
	repo  CatalogRepository
	clock hours.Clock
}

// NewVendorService creates a new vendor service
func NewVendorService(repo CatalogRepository, clock hours.Clock) *VendorService {
	return &VendorService{
		repo:  repo,
		clock: clock,
	}
}

// ListBuildings returns all buildings with each vendor's current state
func (s *VendorService) ListBuildings(ctx context.Context) ([]BuildingSummary, error) {
	buildings, err := s.repo.Buildings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]BuildingSummary, 0, len(buildings))
	for _, b := range buildings {
		summary := BuildingSummary{
			ID:       b.ID,
			Name:     b.Name,
			Location: b.Location,
			Vendors:  make([]VendorSummary, 0, len(b.Vendors)),
		}
		for _, v := range b.Vendors {
			t := hours.NextTransition(v.Hours, now)
			summary.Vendors = append(summary.Vendors, VendorSummary{
				ID:         v.ID,
				Name:       v.Name,
				Image:      v.Image,
				Location:   v.Location,
				Open:       t.Open,
				Status:     status(t.Open),
				NextChange: t.Describe(),
			})
		}
		out = append(out, summary)
	}
	return out, nil
}

// GetVendor returns the detail view of one vendor
func (s *VendorService) GetVendor(ctx context.Context, buildingID, vendorID string) (*VendorDetail, error) {
	building, vendor, err := s.repo.Vendor(ctx, buildingID, vendorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	t := hours.NextTransition(vendor.Hours, now)

	detail := &VendorDetail{
		BuildingID:   building.ID,
		BuildingName: building.Name,
		ID:           vendor.ID,
		Name:         vendor.Name,
		Description:  vendor.Description,
		Image:        vendor.Image,
		Location:     vendor.Location,
		Open:         t.Open,
		Status:       status(t.Open),
		NextChange:   t.Describe(),
		Transition:   t,
		Week:         weekHours(vendor.Hours, now),
		Sections:     make([]SectionView, 0, len(vendor.Menu.Sections)),
	}

	for _, section := range vendor.Menu.Sections {
		view := SectionView{Name: section.Name, Items: make([]ItemView, 0, len(section.Items))}
		for _, item := range section.Items {
			view.Items = append(view.Items, itemView(item))
		}
		detail.Sections = append(detail.Sections, view)
	}
	if len(detail.Sections) > 0 {
		detail.DefaultSection = detail.Sections[0].Name
	}
	detail.PreviousVendorID, detail.NextVendorID = neighbours(building.Vendors, vendor.ID)

	return detail, nil
}

// neighbours returns the vendors before and after id in building order. The
// first and last vendors link to each other; a lone vendor links to itself.
func neighbours(vendors []models.FoodVendor, id string) (prev, next string) {
	for i := range vendors {
		if vendors[i].ID != id {
			continue
		}
		n := len(vendors)
		return vendors[(i-1+n)%n].ID, vendors[(i+1)%n].ID
	}
	return "", ""
}

func weekHours(h hours.VendorHours, now hours.Instant) []DayHours {
	week := make([]DayHours, 0, hours.DaysPerWeek)
	for _, day := range hours.DaysInOrder {
		week = append(week, DayHours{
			Day:   day.String(),
			Hours: hours.FormatDay(h, day),
			Today: hours.IsToday(day, now),
		})
	}
	return week
}

func itemView(item models.MenuItem) ItemView {
	return ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.String(),
		PriceCents:  item.Price,
		Tags:        item.Tags,
		TagsText:    item.TagsText(),
	}
}

func status(open bool) string {
	if open {
		return StatusOpen
	}
	return StatusClosed
}
