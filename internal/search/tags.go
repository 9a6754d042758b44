package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

var ErrUnknownTagGroup = errors.New("unknown tag group")

// TagGroup is one user-facing dietary filter. An item passes the group
// when it carries any of the group's tags.
type TagGroup struct {
	Name string       `json:"name"`
	Tags []models.Tag `json:"tags"`
}

var (
	GroupVegan      = TagGroup{Name: "vegan", Tags: []models.Tag{models.TagVegan, models.TagVeganOption}}
	GroupDairyFree  = TagGroup{Name: "dairy-free", Tags: []models.Tag{models.TagDairyFree, models.TagDairyFreeOption}}
	GroupGlutenFree = TagGroup{Name: "gluten-free", Tags: []models.Tag{models.TagGlutenFree, models.TagGlutenFreeOption}}
	GroupHalal      = TagGroup{Name: "halal", Tags: []models.Tag{models.TagHalal}}
)

// Groups lists the filters offered to users, in display order.
var Groups = []TagGroup{GroupVegan, GroupDairyFree, GroupGlutenFree, GroupHalal}

// LookupGroup resolves a group by name, ignoring case.
func LookupGroup(name string) (TagGroup, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, g := range Groups {
		if g.Name == n {
			return g, nil
		}
	}
	return TagGroup{}, fmt.Errorf("%w: %q", ErrUnknownTagGroup, name)
}

// Matches reports whether item carries at least one tag of the group.
func (g TagGroup) Matches(item *models.MenuItem) bool {
	return item.HasAnyTag(g.Tags)
}

// key identifies a group by its tag set, so groups built separately with
// the same tags toggle the same filter.
func (g TagGroup) key() string {
	tags := make([]string, len(g.Tags))
	for i, t := range g.Tags {
		tags[i] = string(t)
	}
	sort.Strings(tags)
	return strings.Join(tags, "|")
}
