package models

import (
	"fmt"
	"strings"
)

// Cents is a non-negative price in the smallest currency unit
type Cents int64

// String renders the price the way the menu shows it, e.g. "$8.50"
func (c Cents) String() string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}

// MenuItem represents a single dish offered by a vendor
type MenuItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Cents  `json:"price_cents"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// HasAnyTag reports whether the item carries at least one of tags
func (i MenuItem) HasAnyTag(tags []Tag) bool {
	for _, have := range i.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TagsText joins the item's tags for display, e.g. "Vegan, Halal"
func (i MenuItem) TagsText() string {
	names := make([]string, len(i.Tags))
	for n, tag := range i.Tags {
		names[n] = string(tag)
	}
	return strings.Join(names, ", ")
}

// MenuSection groups items under a heading such as "Breakfast"
type MenuSection struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu is the ordered list of a vendor's sections
type Menu struct {
	Sections []MenuSection `json:"sections"`
}

// ItemCount returns the number of items across all sections
func (m Menu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}
