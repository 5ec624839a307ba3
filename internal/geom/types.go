package geom

// BBox is a lon/lat extent. X is longitude, Y is latitude.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box spans a non-empty area.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Extend grows b to include (lon, lat). first must be true for the first point of a set.
func (b BBox) Extend(lon, lat float64, first bool) BBox {
	if first {
		return BBox{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
	}
	if lon < b.MinX {
		b.MinX = lon
	}
	if lat < b.MinY {
		b.MinY = lat
	}
	if lon > b.MaxX {
		b.MaxX = lon
	}
	if lat > b.MaxY {
		b.MaxY = lat
	}
	return b
}

// Union returns the smallest box covering both.
func (b BBox) Union(o BBox) BBox {
	b = b.Extend(o.MinX, o.MinY, false)
	return b.Extend(o.MaxX, o.MaxY, false)
}

// Pad widens the box by frac of its size on every side. Degenerate boxes
// (a single point or a line) are widened by min instead so they stay renderable.
func (b BBox) Pad(frac, min float64) BBox {
	dx := (b.MaxX - b.MinX) * frac
	dy := (b.MaxY - b.MinY) * frac
	if dx < min {
		dx = min
	}
	if dy < min {
		dy = min
	}
	return BBox{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	vertices int
}

// Empty reports whether d holds no geometry at all.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

func (d *Data) grow(p [2]float64) {
	d.BBox = d.BBox.Extend(p[0], p[1], d.vertices == 0)
	d.vertices++
}
