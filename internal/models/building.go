package models

import "github.com/Lixing-Zhang/campus-food-finder/internal/hours"

// Coordinates is a point on the campus map
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FoodVendor represents a place selling food inside a building
type FoodVendor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Image       string            `json:"image,omitempty"`
	Location    Coordinates       `json:"location"`
	Menu        Menu              `json:"menu"`
	Hours       hours.VendorHours `json:"-"`
}

// Building represents a campus building and the vendors it houses
type Building struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location Coordinates  `json:"location"`
	Vendors  []FoodVendor `json:"vendors"`
}

// Vendor returns the vendor with the given ID, if the building has one
func (b *Building) Vendor(id string) (*FoodVendor, bool) {
	for i := range b.Vendors {
		if b.Vendors[i].ID == id {
			return &b.Vendors[i], true
		}
	}
	return nil, false
}
