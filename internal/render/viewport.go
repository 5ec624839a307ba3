package render

import (
	"math"

	"claimmap/internal/geom"
)

const (
	minZoom  = 0.05
	maxZoom  = 64
	zoomStep = 1.2

	// terminal cells are roughly twice as tall as they are wide
	cellAspect = 2.0
)

// Viewport maps lon/lat onto a w x h cell grid, zoomed around the centre of
// BBox and shifted by whole-cell offsets.
type Viewport struct {
	BBox    geom.BBox
	W, H    int
	Zoom    float64
	OffsetX int
	OffsetY int
}

// NewViewport fits bbox to the grid's aspect ratio.
func NewViewport(bbox geom.BBox, w, h int) Viewport {
	return Viewport{BBox: Fit(bbox, w, h), W: w, H: h, Zoom: 1}
}

// Fit grows bbox on one axis so a degree of longitude and latitude cover
// about the same ground distance on screen.
func Fit(b geom.BBox, w, h int) geom.BBox {
	if !b.Valid() || w <= 0 || h <= 0 {
		return b
	}
	midLat := (b.MinY + b.MaxY) / 2
	kx := math.Cos(midLat * math.Pi / 180)
	if kx < 0.1 {
		kx = 0.1
	}
	geoW := (b.MaxX - b.MinX) * kx
	geoH := b.MaxY - b.MinY
	screen := float64(w) / (float64(h) * cellAspect)

	if geoW/geoH > screen {
		half := geoW / screen / 2
		c := (b.MinY + b.MaxY) / 2
		b.MinY, b.MaxY = c-half, c+half
	} else {
		half := geoH * screen / kx / 2
		c := (b.MinX + b.MaxX) / 2
		b.MinX, b.MaxX = c-half, c+half
	}
	return b
}

func (v Viewport) ready() bool {
	return v.BBox.Valid() && v.W > 1 && v.H > 1 && v.Zoom > 0
}

// normalised returns zoomed [0,1] coordinates, y pointing up.
func (v Viewport) normalised(lon, lat float64) (float64, float64) {
	nx := (lon - v.BBox.MinX) / (v.BBox.MaxX - v.BBox.MinX)
	ny := (lat - v.BBox.MinY) / (v.BBox.MaxY - v.BBox.MinY)
	return 0.5 + (nx-0.5)*v.Zoom, 0.5 + (ny-0.5)*v.Zoom
}

// Cell maps lon/lat to a cell. The cell may lie outside the grid.
func (v Viewport) Cell(lon, lat float64) (x, y int, ok bool) {
	if !v.ready() {
		return 0, 0, false
	}
	zx, zy := v.normalised(lon, lat)
	x = int(math.Floor(zx*float64(v.W-1)+0.5)) + v.OffsetX
	y = int(math.Floor((1-zy)*float64(v.H-1)+0.5)) + v.OffsetY
	return x, y, true
}

// Micro maps lon/lat onto the 2x4 braille dot grid.
func (v Viewport) Micro(lon, lat float64) (mx, my int, ok bool) {
	if !v.ready() {
		return 0, 0, false
	}
	zx, zy := v.normalised(lon, lat)
	mx = int(math.Floor(zx*float64(v.W*2-1)+0.5)) + v.OffsetX*2
	my = int(math.Floor((1-zy)*float64(v.H*4-1)+0.5)) + v.OffsetY*4
	return mx, my, true
}

// LonLat converts a cell back to lon/lat.
func (v Viewport) LonLat(cx, cy int) (lon, lat float64, ok bool) {
	if !v.ready() {
		return 0, 0, false
	}
	zx := float64(cx-v.OffsetX) / float64(v.W-1)
	zy := 1.0 - float64(cy-v.OffsetY)/float64(v.H-1)
	nx := 0.5 + (zx-0.5)/v.Zoom
	ny := 0.5 + (zy-0.5)/v.Zoom
	lon = v.BBox.MinX + nx*(v.BBox.MaxX-v.BBox.MinX)
	lat = v.BBox.MinY + ny*(v.BBox.MaxY-v.BBox.MinY)
	return lon, lat, true
}

// Contains reports whether cell (x, y) is on the grid.
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.W && y < v.H
}

// ZoomBy multiplies the zoom, clamped to the supported range. Steps > 0
// zoom in; steps < 0 zoom out.
func (v Viewport) ZoomBy(steps int) Viewport {
	z := v.Zoom * math.Pow(zoomStep, float64(steps))
	v.Zoom = math.Min(maxZoom, math.Max(minZoom, z))
	return v
}

// Pan shifts the grid by whole cells.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// Resize refits the same bbox to a new grid, keeping zoom and pan.
func (v Viewport) Resize(bbox geom.BBox, w, h int) Viewport {
	out := NewViewport(bbox, w, h)
	out.Zoom = v.Zoom
	if out.Zoom == 0 {
		out.Zoom = 1
	}
	out.OffsetX, out.OffsetY = v.OffsetX, v.OffsetY
	return out
}
