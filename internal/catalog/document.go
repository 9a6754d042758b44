package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// maxPrice is the largest accepted item price in dollars
const maxPrice = 100000

// Format selects the decoder for a catalog document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// document is the wire shape of a catalog file, shared by JSON and YAML
type document struct {
	Buildings []buildingDoc `json:"buildings" yaml:"buildings"`
}

type coordinatesDoc struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

type buildingDoc struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Location coordinatesDoc `json:"location" yaml:"location"`
	Vendors  []vendorDoc    `json:"vendors" yaml:"vendors"`
}

type vendorDoc struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Image       string                 `json:"image" yaml:"image"`
	Location    coordinatesDoc         `json:"location" yaml:"location"`
	Hours       map[string][]windowDoc `json:"hours" yaml:"hours"`
	Menu        menuDoc                `json:"menu" yaml:"menu"`
}

type windowDoc struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

type menuDoc struct {
	Sections []sectionDoc `json:"sections" yaml:"sections"`
}

type sectionDoc struct {
	Name  string    `json:"name" yaml:"name"`
	Items []itemDoc `json:"items" yaml:"items"`
}

type itemDoc struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       float64  `json:"price" yaml:"price"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Decode parses a catalog document and converts it into validated
// buildings. Every problem found is reported, each prefixed with its path.
func Decode(data []byte, format Format) ([]models.Building, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml catalog: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json catalog: %w", err)
		}
	}

	return doc.toModels()
}

// problems accumulates validation failures
type problems []error

func (p *problems) addf(path, format string, args ...any) {
	*p = append(*p, fmt.Errorf("%s: "+format, append([]any{path}, args...)...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(p...))
}

func (d document) toModels() ([]models.Building, error) {
	var errs problems
	buildings := make([]models.Building, 0, len(d.Buildings))
	seen := make(map[string]bool)

	for b, bd := range d.Buildings {
		path := fmt.Sprintf("buildings[%d]", b)
		id := strings.TrimSpace(bd.ID)
		switch {
		case id == "":
			errs.addf(path, "id is required")
		case seen[id]:
			errs.addf(path, "duplicate building id %q", id)
		}
		seen[id] = true

		building := models.Building{
			ID:       id,
			Name:     bd.Name,
			Location: models.Coordinates(bd.Location),
			Vendors:  make([]models.FoodVendor, 0, len(bd.Vendors)),
		}

		vendorIDs := make(map[string]bool)
		for v, vd := range bd.Vendors {
			vpath := fmt.Sprintf("%s.vendors[%d]", path, v)
			vendor := vd.toModel(vpath, &errs)
			if vendorIDs[vendor.ID] {
				errs.addf(vpath, "duplicate vendor id %q in building %q", vendor.ID, id)
			}
			vendorIDs[vendor.ID] = true
			building.Vendors = append(building.Vendors, vendor)
		}

		buildings = append(buildings, building)
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return buildings, nil
}

func (vd vendorDoc) toModel(path string, errs *problems) models.FoodVendor {
	vendor := models.FoodVendor{
		ID:          strings.TrimSpace(vd.ID),
		Name:        vd.Name,
		Description: vd.Description,
		Image:       vd.Image,
		Location:    models.Coordinates(vd.Location),
		Hours:       decodeHours(path+".hours", vd.Hours, errs),
	}
	if vendor.ID == "" {
		errs.addf(path, "id is required")
	}

	itemIDs := make(map[string]bool)
	for s, sd := range vd.Menu.Sections {
		section := models.MenuSection{Name: sd.Name, Items: make([]models.MenuItem, 0, len(sd.Items))}
		for i, id := range sd.Items {
			ipath := fmt.Sprintf("%s.menu.sections[%d].items[%d]", path, s, i)
			item := id.toModel(ipath, errs)
			if itemIDs[item.ID] {
				errs.addf(ipath, "duplicate item id %q", item.ID)
			}
			itemIDs[item.ID] = true
			section.Items = append(section.Items, item)
		}
		vendor.Menu.Sections = append(vendor.Menu.Sections, section)
	}

	return vendor
}

func (id itemDoc) toModel(path string, errs *problems) models.MenuItem {
	item := models.MenuItem{
		ID:          strings.TrimSpace(id.ID),
		Name:        id.Name,
		Description: id.Description,
	}
	if item.ID == "" {
		errs.addf(path, "id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		errs.addf(path, "name is required")
	}

	switch {
	case id.Price < 0 || math.IsNaN(id.Price) || math.IsInf(id.Price, 0):
		errs.addf(path, "price must be a non-negative number, got %v", id.Price)
	case id.Price > maxPrice:
		errs.addf(path, "price %v exceeds the maximum of %d", id.Price, maxPrice)
	default:
		item.Price = models.Cents(math.Round(id.Price * 100))
	}

	for _, raw := range id.Tags {
		tag, err := models.ParseTag(raw)
		if err != nil {
			errs.addf(path+".tags", "%v", err)
			continue
		}
		item.Tags = append(item.Tags, tag)
	}

	return item
}

func decodeHours(path string, raw map[string][]windowDoc, errs *problems) hours.VendorHours {
	h := make(hours.VendorHours, len(raw))

	for name, windows := range raw {
		day, err := hours.ParseDay(name)
		if err != nil {
			errs.addf(path, "%v", err)
			continue
		}
		if _, dup := h[day]; dup {
			errs.addf(path, "%s listed more than once", day)
			continue
		}

		list := make([]hours.TimeWindow, 0, len(windows))
		for i, wd := range windows {
			wpath := fmt.Sprintf("%s.%s[%d]", path, day, i)
			start, err := hours.ParseClock(wd.Open)
			if err != nil {
				errs.addf(wpath, "open: %v", err)
				continue
			}
			end, err := hours.ParseClock(wd.Close)
			if err != nil {
				errs.addf(wpath, "close: %v", err)
				continue
			}
			w, err := hours.NewTimeWindow(start, end)
			if err != nil {
				errs.addf(wpath, "%v", err)
				continue
			}
			list = append(list, w)
		}
		h[day] = list
	}

	if err := h.Validate(); err != nil {
		errs.addf(path, "%v", err)
	}
	return h
}
