// Package menuindex flattens buildings, vendors, sections and items into
// the ordered sequence that search runs over.
package menuindex

import (
	"sort"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

// Key addresses one menu item across the whole catalog.
type Key struct {
	BuildingID string `json:"building_id"`
	VendorID   string `json:"vendor_id"`
	ItemID     string `json:"item_id"`
}

// VendorKey addresses a vendor across the whole catalog.
type VendorKey struct {
	BuildingID string
	VendorID   string
}

// Entry pairs a menu item with the vendor that sells it.
type Entry struct {
	BuildingID string
	Vendor     *models.FoodVendor
	Section    string
	Item       *models.MenuItem
}

// Key returns the composite key of the entry.
func (e Entry) Key() Key {
	return Key{BuildingID: e.BuildingID, VendorID: e.Vendor.ID, ItemID: e.Item.ID}
}

// VendorKey returns the composite key of the entry's vendor.
func (e Entry) VendorKey() VendorKey {
	return VendorKey{BuildingID: e.BuildingID, VendorID: e.Vendor.ID}
}

// maxMemo caps the number of distinct building filters kept per index.
const maxMemo = 256

// Index is a read-only view over a catalog snapshot. Flattened sequences
// are memoised per building filter.
type Index struct {
	buildings   []models.Building
	buildingIDs map[string]struct{}
	byKey       map[Key]int
	all         []Entry

	mu   sync.Mutex
	memo map[string][]Entry
}

// New builds an index over buildings. The slice must not be modified
// afterwards.
func New(buildings []models.Building) *Index {
	idx := &Index{
		buildings:   buildings,
		buildingIDs: make(map[string]struct{}, len(buildings)),
		memo:        make(map[string][]Entry),
	}
	for _, b := range buildings {
		idx.buildingIDs[b.ID] = struct{}{}
	}
	idx.all = flatten(buildings, nil)
	idx.byKey = make(map[Key]int, len(idx.all))
	for i, e := range idx.all {
		idx.byKey[e.Key()] = i
	}
	return idx
}

// Buildings returns the buildings the index was built from.
func (idx *Index) Buildings() []models.Building {
	return idx.buildings
}

// Len returns the total number of menu items.
func (idx *Index) Len() int {
	return len(idx.all)
}

// Entries returns every entry belonging to the given buildings, in catalog
// order. No IDs means every building; IDs not in the catalog match nothing.
// The returned slice is shared and must be treated as read-only.
//
// Only filters naming known buildings are memoised, and at most maxMemo of
// them, so arbitrary client input cannot grow the memo.
func (idx *Index) Entries(buildingIDs []string) []Entry {
	if len(buildingIDs) == 0 {
		return idx.all
	}

	allowed := make(map[string]struct{}, len(buildingIDs))
	known := make([]string, 0, len(buildingIDs))
	for _, id := range buildingIDs {
		if _, ok := idx.buildingIDs[id]; ok {
			allowed[id] = struct{}{}
			known = append(known, id)
		}
	}
	if len(known) == 0 {
		return []Entry{}
	}

	key := filterKey(known)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if entries, ok := idx.memo[key]; ok {
		return entries
	}

	entries := flatten(idx.buildings, allowed)
	if len(idx.memo) < maxMemo {
		idx.memo[key] = entries
	}
	return entries
}

// Lookup returns the entry stored under key.
func (idx *Index) Lookup(key Key) (Entry, bool) {
	i, ok := idx.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return idx.all[i], true
}

func flatten(buildings []models.Building, allowed map[string]struct{}) []Entry {
	entries := make([]Entry, 0)
	for b := range buildings {
		building := &buildings[b]
		if allowed != nil {
			if _, ok := allowed[building.ID]; !ok {
				continue
			}
		}
		for v := range building.Vendors {
			vendor := &building.Vendors[v]
			for s := range vendor.Menu.Sections {
				section := &vendor.Menu.Sections[s]
				for i := range section.Items {
					entries = append(entries, Entry{
						BuildingID: building.ID,
						Vendor:     vendor,
						Section:    section.Name,
						Item:       &section.Items[i],
					})
				}
			}
		}
	}
	return entries
}

// filterKey is the canonical memo key of a building filter: the sorted,
// de-duplicated IDs.
func filterKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]string, 0, len(sorted))
	for _, id := range sorted {
		if len(out) > 0 && out[len(out)-1] == id {
			continue
		}
		out = append(out, id)
	}
	return strings.Join(out, "\x00")
}
