package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"claimmap/internal/claims"
)

// Marker is one placed point in markers mode. X/Y may be off-grid when the
// view is panned or zoomed away from it; it still counts as placed.
type Marker struct {
	Point   claims.Point
	X, Y    int
	Icon    Icon
	Default bool // no icon registered for the category
}

type cell struct {
	glyph rune
	color string
}

// Surface is one complete drawing. A Renderer replaces its surface on every
// draw; a surface is never appended to after Draw returns.
type Surface struct {
	w, h    int
	mode    Mode
	count   int
	cells   []cell
	base    *brailleBuf
	markers []Marker
	heat    []float64
}

func newSurface(w, h int, mode Mode) *Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Surface{
		w:     w,
		h:     h,
		mode:  mode,
		cells: make([]cell, w*h),
		base:  newBrailleBuf(w, h),
	}
}

func (s *Surface) Size() (w, h int) { return s.w, s.h }
func (s *Surface) Mode() Mode       { return s.mode }

// Count is the number of points placed (markers) or contributed (heatmap).
func (s *Surface) Count() int { return s.count }

// Markers returns the placed markers in draw order. Empty in heatmap mode.
func (s *Surface) Markers() []Marker { return s.markers }

// Intensity returns the normalised heat value of a cell, 0 outside heatmap mode.
func (s *Surface) Intensity(x, y int) float64 {
	if s.heat == nil || x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0
	}
	return s.heat[y*s.w+x]
}

func (s *Surface) put(x, y int, glyph rune, color string) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.cells[y*s.w+x] = cell{glyph: glyph, color: color}
}

// Glyph returns the visible rune at a cell: marker or heat glyph first,
// then basemap braille, else a space.
func (s *Surface) Glyph(x, y int) rune {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return ' '
	}
	if c := s.cells[y*s.w+x]; c.glyph != 0 {
		return c.glyph
	}
	if r := s.base.at(x, y); r != 0 {
		return r
	}
	return ' '
}

// Plain renders the surface without colour.
func (s *Surface) Plain() []string {
	out := make([]string, s.h)
	row := make([]rune, s.w)
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			row[x] = s.Glyph(x, y)
		}
		out[y] = string(row)
	}
	return out
}

func (s *Surface) onGrid(m Marker) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < s.w && m.Y < s.h
}

// MarkerAt returns the last on-grid marker drawn within radius cells of
// (x, y), which is the one visible on top. Vertical distance counts double.
func (s *Surface) MarkerAt(x, y, radius int) (Marker, bool) {
	best, bestD := -1, radius*radius+1
	for i, m := range s.markers {
		if !s.onGrid(m) {
			continue
		}
		dx, dy := m.X-x, (m.Y-y)*2
		if d := dx*dx + dy*dy; d <= bestD && d <= radius*radius {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Marker{}, false
	}
	return s.markers[best], true
}

// Nearest returns the on-grid marker closest to (x, y).
func (s *Surface) Nearest(x, y int) (Marker, bool) {
	best, bestD := -1, int(^uint(0)>>1)
	for i, m := range s.markers {
		if !s.onGrid(m) {
			continue
		}
		dx, dy := m.X-x, (m.Y-y)*2
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Marker{}, false
	}
	return s.markers[best], true
}

var (
	basemapStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B4B5E"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
)

// Lines renders the surface with colour. sel, when non-nil, is drawn as a
// highlighted ring in place of its marker glyph.
func (s *Surface) Lines(sel *Marker) []string {
	styles := map[string]lipgloss.Style{}
	styleFor := func(c string) lipgloss.Style {
		st, ok := styles[c]
		if !ok {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
			styles[c] = st
		}
		return st
	}

	out := make([]string, s.h)
	var b strings.Builder
	for y := 0; y < s.h; y++ {
		b.Reset()
		var run []rune // consecutive basemap/blank cells share one style run
		flush := func() {
			if len(run) > 0 {
				b.WriteString(basemapStyle.Render(string(run)))
				run = run[:0]
			}
		}
		for x := 0; x < s.w; x++ {
			if sel != nil && sel.X == x && sel.Y == y {
				flush()
				b.WriteString(highlightStyle.Render("◉"))
				continue
			}
			c := s.cells[y*s.w+x]
			if c.glyph == 0 {
				r := s.base.at(x, y)
				if r == 0 {
					r = ' '
				}
				run = append(run, r)
				continue
			}
			flush()
			b.WriteString(styleFor(c.color).Render(string(c.glyph)))
		}
		flush()
		out[y] = b.String()
	}
	return out
}
