package search

import (
	"sync"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/menuindex"
)

// IndexSource provides the index of the current catalog snapshot.
type IndexSource interface {
	Index() *menuindex.Index
}

// StaticIndex serves a fixed index.
type StaticIndex struct {
	Idx *menuindex.Index
}

func (s StaticIndex) Index() *menuindex.Index {
	return s.Idx
}

// Facade holds the filter configuration a user builds up and runs searches
// with it.
type Facade struct {
	source IndexSource
	clock  hours.Clock

	mu        sync.RWMutex
	buildings []string
	groups    []TagGroup
}

// NewFacade creates a facade with no active filters
func NewFacade(source IndexSource, clock hours.Clock) *Facade {
	return &Facade{
		source: source,
		clock:  clock,
	}
}

// SetBuildingFilters replaces the building restriction. No IDs clears it.
func (f *Facade) SetBuildingFilters(ids []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buildings = append([]string(nil), ids...)
}

// BuildingFilters returns the active building restriction.
func (f *Facade) BuildingFilters() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.buildings...)
}

// ToggleTagGroup activates group, or deactivates it when already active.
// It reports whether the group is active afterwards.
func (f *Facade) ToggleTagGroup(group TagGroup) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := group.key()
	for i, g := range f.groups {
		if g.key() == k {
			f.groups = append(f.groups[:i:i], f.groups[i+1:]...)
			return false
		}
	}
	f.groups = append(f.groups, group)
	return true
}

// ActiveTagGroups returns the active groups in activation order.
func (f *Facade) ActiveTagGroups() []TagGroup {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]TagGroup(nil), f.groups...)
}

// Search runs the pipeline with the current configuration.
func (f *Facade) Search(query string, openOnly bool) []menuindex.Entry {
	f.mu.RLock()
	c := Criteria{
		BuildingIDs: append([]string(nil), f.buildings...),
		TagGroups:   append([]TagGroup(nil), f.groups...),
		OpenOnly:    openOnly,
		Query:       query,
	}
	f.mu.RUnlock()

	if openOnly {
		c.Now = f.clock.Now()
	}
	return Run(f.source.Index(), c)
}
