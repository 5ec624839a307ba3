package geom

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadWKT reads one WKT geometry per line. Blank lines and lines starting
// with '#' are skipped.
func LoadWKT(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()

	var d Data
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := d.addWKT(line); err != nil {
			return Data{}, fmt.Errorf("wkt line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return Data{}, err
	}
	if d.Empty() {
		return Data{}, errors.New("wkt: no geometry found")
	}
	return d, nil
}

// ParseWKT parses a single geometry.
// Supported: POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON, MULTIPOLYGON.
func ParseWKT(wkt string) (Data, error) {
	var d Data
	if err := d.addWKT(wkt); err != nil {
		return Data{}, err
	}
	return d, nil
}

func (d *Data) addWKT(wkt string) error {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return errors.New("empty wkt")
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		if strings.HasSuffix(strings.ToUpper(s), "EMPTY") {
			return nil
		}
		return fmt.Errorf("invalid wkt: %q", s)
	}
	// "POINT Z (..)" and friends: only the first word names the type.
	head := strings.Fields(s[:i])
	if len(head) == 0 {
		return fmt.Errorf("invalid wkt: %q", s)
	}
	tag := strings.ToUpper(head[0])
	body := s[i+1 : j]

	switch tag {
	case "POINT":
		pts := wktTuples(body)
		if len(pts) != 1 {
			return errors.New("wkt point: invalid")
		}
		d.addPoint(pts[0])
	case "MULTIPOINT":
		// both "(1 2), (3 4)" and "1 2, 3 4" are in use
		flat := strings.NewReplacer("(", "", ")", "").Replace(body)
		for _, p := range wktTuples(flat) {
			d.addPoint(p)
		}
	case "LINESTRING":
		d.addLine(wktTuples(body))
	case "MULTILINESTRING":
		for _, g := range wktGroups(body) {
			d.addLine(wktTuples(g))
		}
	case "POLYGON":
		d.addPolygon(wktRings(body))
	case "MULTIPOLYGON":
		for _, g := range wktGroups(body) {
			d.addPolygon(wktRings(g))
		}
	default:
		return fmt.Errorf("unsupported wkt type: %s", tag)
	}
	return nil
}

// wktGroups returns the contents of each top-level parenthesised group.
func wktGroups(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, c := range s {
		switch c {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				out = append(out, s[start:i])
			}
		}
	}
	return out
}

func wktRings(s string) [][][2]float64 {
	var rings [][][2]float64
	for _, g := range wktGroups(s) {
		if ring := wktTuples(g); len(ring) > 0 {
			rings = append(rings, ring)
		}
	}
	return rings
}

func wktTuples(block string) [][2]float64 {
	var out [][2]float64
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, [2]float64{x, y})
	}
	return out
}
