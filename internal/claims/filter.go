package claims

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LocationType selects which coordinate pair of a claim is plotted.
type LocationType int

const (
	Event LocationType = iota
	Claimant
)

func (l LocationType) String() string {
	if l == Claimant {
		return "claimant"
	}
	return "event"
}

// Toggle returns the other location type.
func (l LocationType) Toggle() LocationType {
	if l == Claimant {
		return Event
	}
	return Claimant
}

// ParseLocationType accepts "event" or "claimant", case-insensitively.
func ParseLocationType(s string) (LocationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "event":
		return Event, nil
	case "claimant":
		return Claimant, nil
	}
	return Event, fmt.Errorf("unknown location type %q (want event or claimant)", s)
}

// parseCoord accepts a complete, finite decimal literal. ParseFloat also
// takes hex floats such as 0x1p5, so those are turned away first.
func parseCoord(v string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Coordinates returns the row's lat/lon for loc when both parse.
func (s Schema) Coordinates(r Row, loc LocationType) (lat, lon float64, ok bool) {
	latField, lonField := s.coordFields(loc)
	lat, okLat := parseCoord(r.Get(latField))
	lon, okLon := parseCoord(r.Get(lonField))
	if !okLat || !okLon {
		return 0, 0, false
	}
	return lat, lon, true
}

// Match reports whether a single row passes the filter.
func (s Schema) Match(r Row, category string, loc LocationType) bool {
	if _, ok := s.Identifier(r); !ok {
		return false
	}
	if category != "" {
		if c, _ := s.Category(r); c != category {
			return false
		}
	}
	_, _, ok := s.Coordinates(r, loc)
	return ok
}

// Filter keeps rows with an identifier, the selected category (empty means
// any) and numeric coordinates for loc. Order is preserved.
func (s Schema) Filter(rows []Row, category string, loc LocationType) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if s.Match(r, category, loc) {
			out = append(out, r)
		}
	}
	return out
}
