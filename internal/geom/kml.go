package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKML reads Point, LineString and Polygon placemarks from a KML file.
func LoadKML(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return DecodeKML(f)
}

// DecodeKML walks the document for <coordinates> elements and files each
// under its parent geometry, so placemarks nested in Folder or
// MultiGeometry are picked up too. Polygon rings keep document order:
// outer boundary first, then holes.
func DecodeKML(r io.Reader) (Data, error) {
	var (
		d       Data
		stack   []string
		text    strings.Builder
		inCoord bool
		inPoly  bool
		poly    [][][2]float64
	)
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Data{}, fmt.Errorf("kml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Polygon":
				inPoly, poly = true, nil
			case "coordinates":
				inCoord = true
				text.Reset()
			}
			stack = append(stack, t.Name.Local)
		case xml.CharData:
			if inCoord {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "coordinates":
				inCoord = false
				coords := kmlCoords(text.String())
				parent := ""
				if len(stack) > 1 {
					parent = stack[len(stack)-2]
				}
				switch parent {
				case "Point":
					for _, p := range coords {
						d.addPoint(p)
					}
				case "LineString":
					d.addLine(coords)
				case "LinearRing":
					if inPoly && len(coords) > 0 {
						poly = append(poly, coords)
					}
				}
			case "Polygon":
				d.addPolygon(poly)
				inPoly, poly = false, nil
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if d.Empty() {
		return Data{}, errors.New("kml: no geometry found")
	}
	return d, nil
}

// kmlCoords parses whitespace separated "lon,lat[,alt]" tuples. Altitude
// and malformed tuples are dropped.
func kmlCoords(s string) [][2]float64 {
	var out [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(vals[0], 64)
		lat, err2 := strconv.ParseFloat(vals[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
