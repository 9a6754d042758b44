package models

import (
	"errors"
	"fmt"
	"strings"
)

// Tag is a dietary label attached to a menu item
type Tag string

const (
	TagVegan            Tag = "Vegan"
	TagVeganOption      Tag = "Vegan Option"
	TagDairyFree        Tag = "Dairy Free"
	TagDairyFreeOption  Tag = "Dairy Free Option"
	TagGlutenFree       Tag = "Gluten Free"
	TagGlutenFreeOption Tag = "Gluten Free Option"
	TagHalal            Tag = "Halal"
)

// AllTags lists every known tag in display order
var AllTags = []Tag{
	TagVegan,
	TagVeganOption,
	TagDairyFree,
	TagDairyFreeOption,
	TagGlutenFree,
	TagGlutenFreeOption,
	TagHalal,
}

var ErrUnknownTag = errors.New("unknown dietary tag")

// ParseTag matches a tag name ignoring case, spaces, dashes and underscores,
// so "vegan_option", "Vegan Option" and "VeganOption" are all accepted
func ParseTag(s string) (Tag, error) {
	key := normalizeTag(s)
	for _, tag := range AllTags {
		if normalizeTag(string(tag)) == key {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

func normalizeTag(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
