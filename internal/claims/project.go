package claims

import (
	"strings"

	"claimmap/internal/geom"
)

// Point is a filtered claim placed on the map.
type Point struct {
	Lat      float64
	Lon      float64
	Label    string
	ID       string
	Category string
	Location string
	Date     string
}

// Project converts rows to points for loc. Rows that fail the filter are
// skipped, so Project(Filter(rows, c, loc), loc) and Project(rows, loc)
// restricted to c agree.
func (s Schema) Project(rows []Row, loc LocationType) []Point {
	out := make([]Point, 0, len(rows))
	for _, r := range rows {
		id, ok := s.Identifier(r)
		if !ok {
			continue
		}
		lat, lon, ok := s.Coordinates(r, loc)
		if !ok {
			continue
		}
		cat, _ := Category(id)
		place, _ := r.Get(s.locationField(loc))
		date, _ := r.Get(s.EventDate)
		out = append(out, Point{
			Lat:      lat,
			Lon:      lon,
			Label:    label(id, place, date),
			ID:       id,
			Category: cat,
			Location: place,
			Date:     date,
		})
	}
	return out
}

func label(parts ...string) string {
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}

// Bounds returns the extent of pts; ok is false for an empty set.
func Bounds(pts []Point) (geom.BBox, bool) {
	var b geom.BBox
	for i, p := range pts {
		b = b.Extend(p.Lon, p.Lat, i == 0)
	}
	return b, len(pts) > 0
}
