// Package render draws projected claim points onto a terminal surface as
// category markers or a density heatmap, over an optional vector basemap.
package render

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"claimmap/internal/claims"
	"claimmap/internal/geom"
)

// Options configures a Renderer.
type Options struct {
	Icons   IconSet
	Heat    HeatOptions
	Basemap *geom.Data
	// CacheTTL bounds how long identical scenes reuse a surface; 0 disables caching.
	CacheTTL time.Duration
}

// Scene is one render request. Key identifies the point set (data version
// plus filter selections); scenes with equal Key, Mode and viewport always
// produce the same surface. An empty Key is never cached.
type Scene struct {
	Key    string
	Points []claims.Point
	Mode   Mode
}

// Renderer owns the draw surface. It is not safe for concurrent use.
type Renderer struct {
	opts    Options
	vp      Viewport
	surface *Surface
	cache   *gocache.Cache
}

func New(opts Options) *Renderer {
	if opts.Icons.byCat == nil && opts.Icons.Default.Glyph == "" {
		opts.Icons = DefaultIcons()
	}
	if opts.Heat == (HeatOptions{}) {
		opts.Heat = DefaultHeat
	}
	r := &Renderer{opts: opts, surface: newSurface(1, 1, Markers)}
	if opts.CacheTTL > 0 {
		r.cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return r
}

func (r *Renderer) Viewport() Viewport { return r.vp }

func (r *Renderer) SetViewport(vp Viewport) { r.vp = vp }

// Surface returns the current drawing.
func (r *Renderer) Surface() *Surface { return r.surface }

func (r *Renderer) Icons() IconSet { return r.opts.Icons }

// Basemap returns the configured basemap, or nil.
func (r *Renderer) Basemap() *geom.Data { return r.opts.Basemap }

// SetBasemap swaps the basemap and drops cached surfaces drawn with the old one.
func (r *Renderer) SetBasemap(d *geom.Data) {
	r.opts.Basemap = d
	if r.cache != nil {
		r.cache.Flush()
	}
}

func (r *Renderer) cacheKey(sc Scene) string {
	v := r.vp
	return fmt.Sprintf("%s|%s|%dx%d|%g|%d,%d|%g,%g,%g,%g",
		sc.Key, sc.Mode, v.W, v.H, v.Zoom, v.OffsetX, v.OffsetY,
		v.BBox.MinX, v.BBox.MinY, v.BBox.MaxX, v.BBox.MaxY)
}

// Draw replaces the current surface with a fresh drawing of sc.
func (r *Renderer) Draw(sc Scene) *Surface {
	var key string
	if r.cache != nil && sc.Key != "" {
		key = r.cacheKey(sc)
		if s, ok := r.cache.Get(key); ok {
			r.surface = s.(*Surface)
			return r.surface
		}
	}

	s := newSurface(r.vp.W, r.vp.H, sc.Mode)
	if r.opts.Basemap != nil {
		s.drawBasemap(r.vp, r.opts.Basemap)
	}
	switch sc.Mode {
	case Heatmap:
		s.drawHeat(r.vp, sc.Points, r.opts.Heat)
	default:
		s.drawMarkers(r.vp, sc.Points, r.opts.Icons)
	}
	r.surface = s

	if key != "" {
		r.cache.SetDefault(key, s)
	}
	return s
}

func (s *Surface) drawMarkers(vp Viewport, pts []claims.Point, icons IconSet) {
	s.markers = make([]Marker, 0, len(pts))
	for _, p := range pts {
		ic, registered := icons.For(p.Category)
		m := Marker{Point: p, X: -1, Y: -1, Icon: ic, Default: !registered}
		if x, y, ok := vp.Cell(p.Lon, p.Lat); ok {
			m.X, m.Y = x, y
			s.put(x, y, firstRune(ic.Glyph), ic.Color)
		}
		s.markers = append(s.markers, m)
	}
	s.count = len(s.markers)
}

func firstRune(g string) rune {
	for _, r := range g {
		return r
	}
	return '●'
}

// drawBasemap outlines lines and polygon rings and dots bare points.
func (s *Surface) drawBasemap(vp Viewport, d *geom.Data) {
	wMic, hMic := s.w*2, s.h*4
	offGrid := func(a, b [2]int) bool {
		return (a[0] < 0 && b[0] < 0) || (a[1] < 0 && b[1] < 0) ||
			(a[0] >= wMic && b[0] >= wMic) || (a[1] >= hMic && b[1] >= hMic)
	}
	stroke := func(path [][2]float64, closed bool) {
		var prev [2]int
		var first [2]int
		for i, p := range path {
			mx, my, ok := vp.Micro(p[0], p[1])
			if !ok {
				return
			}
			cur := [2]int{mx, my}
			if i == 0 {
				first = cur
			} else if !offGrid(prev, cur) {
				s.base.drawLine(prev[0], prev[1], cur[0], cur[1])
			}
			prev = cur
		}
		if closed && len(path) > 2 && !offGrid(prev, first) {
			s.base.drawLine(prev[0], prev[1], first[0], first[1])
		}
	}
	for _, poly := range d.Polygons {
		for _, ring := range poly {
			stroke(ring, true)
		}
	}
	for _, ls := range d.Lines {
		stroke(ls, false)
	}
	for _, p := range d.Points {
		if mx, my, ok := vp.Micro(p[0], p[1]); ok {
			s.base.setPixel(mx, my)
		}
	}
}
