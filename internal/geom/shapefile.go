package geom

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
)

// LoadShapefile reads points, polylines and polygons from a .shp file.
// Polygon parts are kept as separate rings of one polygon.
func LoadShapefile(path string) (Data, error) {
	r, err := shp.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer r.Close()

	var d Data
	for r.Next() {
		_, shape := r.Shape()
		switch s := shape.(type) {
		case *shp.Point:
			d.addPoint([2]float64{s.X, s.Y})
		case *shp.MultiPoint:
			for _, p := range s.Points {
				d.addPoint([2]float64{p.X, p.Y})
			}
		case *shp.PolyLine:
			for _, part := range splitParts(s.Parts, s.Points) {
				d.addLine(part)
			}
		case *shp.Polygon:
			d.addPolygon(splitParts(s.Parts, s.Points))
		}
	}
	if d.Empty() {
		return Data{}, fmt.Errorf("no shapes found in shapefile: %s", path)
	}
	return d, nil
}

// splitParts cuts a flat point list at the part start offsets.
func splitParts(parts []int32, pts []shp.Point) [][][2]float64 {
	if len(parts) == 0 {
		parts = []int32{0}
	}
	out := make([][][2]float64, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(pts) {
			continue
		}
		ring := make([][2]float64, 0, end-start)
		for _, p := range pts[start:end] {
			ring = append(ring, [2]float64{p.X, p.Y})
		}
		out = append(out, ring)
	}
	return out
}

// LoadBasemap picks a loader by file extension.
func LoadBasemap(path string) (Data, error) {
	if path == "" {
		return Data{}, errors.New("basemap: empty path")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".shp":
		return LoadShapefile(path)
	case ".geojson", ".json":
		return LoadGeo(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		return LoadWKT(path)
	default:
		return Data{}, fmt.Errorf("basemap: unsupported file: %s", ext)
	}
}
