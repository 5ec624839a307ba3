package claims

import (
	"sort"
	"strings"
)

// Category returns the part of a claim identifier before its first '-'.
// An identifier without '-' is its own category.
func Category(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	cat, _, _ := strings.Cut(id, "-")
	return cat, cat != ""
}

// Category derives the row's category from its identifier field.
func (s Schema) Category(r Row) (string, bool) {
	id, ok := s.Identifier(r)
	if !ok {
		return "", false
	}
	return Category(id)
}

// Categories lists the distinct categories across rows, sorted ascending.
// Rows are not filtered by coordinates first, so the list stays stable
// whichever location type is selected.
func (s Schema) Categories(rows []Row) []string {
	counts := s.CategoryCounts(rows)
	out := make([]string, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryCounts counts rows per category.
func (s Schema) CategoryCounts(rows []Row) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		if c, ok := s.Category(r); ok {
			counts[c]++
		}
	}
	return counts
}
