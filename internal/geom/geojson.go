package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// FeatureCollection is the GeoJSON envelope used for both basemap input and point export.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry keeps coordinates raw; their nesting depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// PointFeature builds a Point feature. GeoJSON order is [lon, lat].
func PointFeature(lon, lat float64, props map[string]any) Feature {
	coords, _ := json.Marshal([2]float64{lon, lat})
	return Feature{
		Type:       "Feature",
		Geometry:   &Geometry{Type: "Point", Coordinates: coords},
		Properties: props,
	}
}

// WriteFeatures encodes features as an indented FeatureCollection.
func WriteFeatures(w io.Writer, features []Feature) error {
	if features == nil {
		features = []Feature{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FeatureCollection{Type: "FeatureCollection", Features: features})
}

// LoadGeo reads a GeoJSON file and returns Data (points, lines, polygons)
func LoadGeo(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return DecodeGeo(f)
}

// DecodeGeo accepts a FeatureCollection, a single Feature, or a bare geometry.
func DecodeGeo(r io.Reader) (Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Data{}, err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Data{}, fmt.Errorf("geojson: %w", err)
	}

	var geoms []*Geometry
	switch head.Type {
	case "FeatureCollection":
		var fc FeatureCollection
		if err := json.Unmarshal(raw, &fc); err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		var f Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	case "":
		return Data{}, errors.New("geojson: missing type")
	default:
		var g Geometry
		if err := json.Unmarshal(raw, &g); err != nil {
			return Data{}, fmt.Errorf("geojson: %w", err)
		}
		geoms = append(geoms, &g)
	}

	var d Data
	for _, g := range geoms {
		if g != nil {
			d.addGeometry(g)
		}
	}
	if d.Empty() {
		return Data{}, errors.New("no geometries found")
	}
	return d, nil
}

// addGeometry decodes coordinates by type. Geometries whose coordinates do not
// match their declared type are skipped.
func (d *Data) addGeometry(g *Geometry) {
	switch g.Type {
	case "Point":
		var p [2]float64
		if json.Unmarshal(g.Coordinates, &p) == nil {
			d.addPoint(p)
		}
	case "MultiPoint":
		var ps [][2]float64
		if json.Unmarshal(g.Coordinates, &ps) == nil {
			for _, p := range ps {
				d.addPoint(p)
			}
		}
	case "LineString":
		var ls [][2]float64
		if json.Unmarshal(g.Coordinates, &ls) == nil {
			d.addLine(ls)
		}
	case "MultiLineString":
		var mls [][][2]float64
		if json.Unmarshal(g.Coordinates, &mls) == nil {
			for _, ls := range mls {
				d.addLine(ls)
			}
		}
	case "Polygon":
		var poly [][][2]float64
		if json.Unmarshal(g.Coordinates, &poly) == nil {
			d.addPolygon(poly)
		}
	case "MultiPolygon":
		var mp [][][][2]float64
		if json.Unmarshal(g.Coordinates, &mp) == nil {
			for _, poly := range mp {
				d.addPolygon(poly)
			}
		}
	}
}

func (d *Data) addPoint(p [2]float64) {
	d.Points = append(d.Points, p)
	d.grow(p)
}

func (d *Data) addLine(ls [][2]float64) {
	if len(ls) < 2 {
		return
	}
	d.Lines = append(d.Lines, ls)
	for _, p := range ls {
		d.grow(p)
	}
}

func (d *Data) addPolygon(poly [][][2]float64) {
	if len(poly) == 0 {
		return
	}
	d.Polygons = append(d.Polygons, poly)
	for _, ring := range poly {
		for _, p := range ring {
			d.grow(p)
		}
	}
}
