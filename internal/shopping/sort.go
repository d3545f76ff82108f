package shopping

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"recipe-shopper/internal/ingredient"
)

// SortMode selects how a shopping list is ordered for display.
type SortMode string

const (
	SortNone         SortMode = "none"
	SortAlphabetical SortMode = "alphabetical"
	SortCategory     SortMode = "category"
)

var sortModes = []SortMode{SortNone, SortAlphabetical, SortCategory}

// ParseSortMode accepts "none", "alphabetical" or "category". The empty
// string means none.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return SortNone, nil
	}
	for _, m := range sortModes {
		if string(m) == s {
			return m, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort mode %q", s)
}

// Next cycles none -> alphabetical -> category -> none.
func (m SortMode) Next() SortMode {
	i := slices.Index(sortModes, m)
	return sortModes[(i+1)%len(sortModes)]
}

// Group is one category section of a grouped list.
type Group struct {
	Category ingredient.Category
	Items    []Item
}

// Sorter orders and groups items using a categorizer and German collation.
type Sorter struct {
	categorizer *ingredient.Categorizer
	tag         language.Tag
}

// NewSorter returns a Sorter collating with German rules.
func NewSorter(c *ingredient.Categorizer) *Sorter {
	return &Sorter{categorizer: c, tag: language.German}
}

// collator is created per call; collate.Collator is not safe for concurrent use.
func (s *Sorter) collator() *collate.Collator {
	return collate.New(s.tag)
}

// Sort returns a sorted copy of items. SortNone (and any unknown mode)
// returns the items in stored order. Sorting is stable.
func (s *Sorter) Sort(items []Item, mode SortMode) []Item {
	out := slices.Clone(items)
	switch mode {
	case SortAlphabetical:
		col := s.collator()
		slices.SortStableFunc(out, func(a, b Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortCategory:
		col := s.collator()
		slices.SortStableFunc(out, func(a, b Item) int {
			catA := s.categorizer.Categorize(a.Name)
			catB := s.categorizer.Categorize(b.Name)
			if catA != catB {
				return col.CompareString(string(catA), string(catB))
			}
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}

// GroupByCategory partitions items by category. Groups appear in the order
// their category is first encountered; items inside a group are sorted by
// name.
func (s *Sorter) GroupByCategory(items []Item) []Group {
	var groups []Group
	index := make(map[ingredient.Category]int)
	for _, item := range items {
		cat := s.categorizer.Categorize(item.Name)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	col := s.collator()
	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return groups
}
