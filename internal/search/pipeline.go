// Package search narrows the menu index by building, dietary tags and
// opening hours, then matches a text query against item names.
package search

import (
	"strings"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/menuindex"
)

// Criteria is one complete filter configuration.
type Criteria struct {
	BuildingIDs []string
	TagGroups   []TagGroup
	OpenOnly    bool
	Now         hours.Instant
	Query       string
}

// Run applies the building filter, the tag groups, the open-now filter and
// the text match, returning entries in index order. A blank query yields no
// results.
func Run(idx *menuindex.Index, c Criteria) []menuindex.Entry {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	if query == "" || idx == nil {
		return []menuindex.Entry{}
	}

	open := make(map[menuindex.VendorKey]bool)
	results := make([]menuindex.Entry, 0)

	for _, e := range idx.Entries(c.BuildingIDs) {
		if !matchesGroups(e, c.TagGroups) {
			continue
		}
		if c.OpenOnly && !vendorOpen(open, e, c.Now) {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Item.Name), query) {
			continue
		}
		results = append(results, e)
	}

	return results
}

// matchesGroups is AND across groups, OR within each group.
func matchesGroups(e menuindex.Entry, groups []TagGroup) bool {
	for _, g := range groups {
		if !g.Matches(e.Item) {
			return false
		}
	}
	return true
}

func vendorOpen(cache map[menuindex.VendorKey]bool, e menuindex.Entry, now hours.Instant) bool {
	k := e.VendorKey()
	if v, ok := cache[k]; ok {
		return v
	}
	v := hours.IsOpen(e.Vendor.Hours, now)
	cache[k] = v
	return v
}
