package render

import (
	"math"

	"claimmap/internal/claims"
)

// HeatOptions shapes the density kernel, in cell widths. Each point adds 1
// within Radius and fades linearly to 0 over the next Blur cells.
type HeatOptions struct {
	Radius int `mapstructure:"radius" yaml:"radius"`
	Blur   int `mapstructure:"blur" yaml:"blur"`
}

// DefaultHeat is tuned for an 80-200 column terminal.
var DefaultHeat = HeatOptions{Radius: 1, Blur: 2}

var shadeRamp = []rune{'░', '▒', '▓', '█'}

// heatStops follows the usual blue to red web heatmap gradient.
var heatStops = []struct {
	upTo  float64
	color string
}{
	{0.4, "#2563EB"},
	{0.6, "#06B6D4"},
	{0.7, "#84CC16"},
	{0.8, "#EAB308"},
	{1.0, "#EF4444"},
}

func heatColor(v float64) string {
	for _, s := range heatStops {
		if v <= s.upTo {
			return s.color
		}
	}
	return heatStops[len(heatStops)-1].color
}

func heatGlyph(v float64) rune {
	i := int(math.Ceil(v*float64(len(shadeRamp)))) - 1
	if i < 0 {
		i = 0
	}
	if i >= len(shadeRamp) {
		i = len(shadeRamp) - 1
	}
	return shadeRamp[i]
}

func kernel(d float64, o HeatOptions) float64 {
	r := float64(o.Radius)
	if d <= r {
		return 1
	}
	if o.Blur <= 0 {
		return 0
	}
	w := 1 - (d-r)/float64(o.Blur)
	if w < 0 {
		return 0
	}
	return w
}

// drawHeat accumulates equal-weight kernels for every point, normalises by
// the peak and paints shade glyphs. Every point contributes even when its
// kernel lies entirely off-grid.
func (s *Surface) drawHeat(vp Viewport, pts []claims.Point, o HeatOptions) {
	if o.Radius < 0 {
		o.Radius = 0
	}
	s.heat = make([]float64, s.w*s.h)
	reach := o.Radius + o.Blur
	for _, p := range pts {
		s.count++
		cx, cy, ok := vp.Cell(p.Lon, p.Lat)
		if !ok {
			continue
		}
		for dy := -reach; dy <= reach; dy++ {
			y := cy + dy
			if y < 0 || y >= s.h {
				continue
			}
			for dx := -reach; dx <= reach; dx++ {
				x := cx + dx
				if x < 0 || x >= s.w {
					continue
				}
				d := math.Hypot(float64(dx), float64(dy)*cellAspect)
				if w := kernel(d, o); w > 0 {
					s.heat[y*s.w+x] += w
				}
			}
		}
	}

	peak := 0.0
	for _, v := range s.heat {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		return
	}
	for i, v := range s.heat {
		if v == 0 {
			continue
		}
		n := v / peak
		s.heat[i] = n
		s.cells[i] = cell{glyph: heatGlyph(n), color: heatColor(n)}
	}
}
