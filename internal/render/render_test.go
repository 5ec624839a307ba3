package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimmap/internal/claims"
	"claimmap/internal/geom"
)

func testViewport() Viewport {
	return Viewport{BBox: geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, W: 11, H: 11, Zoom: 1}
}

func testPoints() []claims.Point {
	return []claims.Point{
		{Lat: 0, Lon: 0, ID: "A2.1-001", Category: "A2.1", Label: "A2.1-001"},
		{Lat: 10, Lon: 10, ID: "A3.1-002", Category: "A3.1", Label: "A3.1-002"},
		{Lat: 5, Lon: 5, ID: "B1-099", Category: "B1", Label: "B1-099"},
	}
}

func newTestRenderer(ttl time.Duration) *Renderer {
	r := New(Options{Icons: DefaultIcons(), CacheTTL: ttl})
	r.SetViewport(testViewport())
	return r
}

func TestViewportCellCorners(t *testing.T) {
	vp := testViewport()
	x, y, ok := vp.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 10, y, "south-west corner is bottom-left")

	x, y, _ = vp.Cell(10, 10)
	assert.Equal(t, 10, x)
	assert.Equal(t, 0, y)

	lon, lat, ok := vp.LonLat(5, 5)
	require.True(t, ok)
	assert.InDelta(t, 5, lon, 1e-9)
	assert.InDelta(t, 5, lat, 1e-9)
}

func TestViewportNotReady(t *testing.T) {
	_, _, ok := Viewport{W: 10, H: 10, Zoom: 1}.Cell(1, 1)
	assert.False(t, ok)
}

func TestViewportZoomAndPan(t *testing.T) {
	vp := testViewport().ZoomBy(1)
	assert.InDelta(t, 1.2, vp.Zoom, 1e-9)
	assert.Equal(t, float64(maxZoom), testViewport().ZoomBy(100).Zoom)
	assert.Equal(t, float64(minZoom), testViewport().ZoomBy(-100).Zoom)

	x0, _, _ := testViewport().Cell(5, 5)
	x1, _, _ := testViewport().Pan(3, 0).Cell(5, 5)
	assert.Equal(t, x0+3, x1)
}

func TestFitKeepsAspect(t *testing.T) {
	b := Fit(geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, 80, 20)
	// Wide grid: latitude span stays, longitude widens.
	assert.InDelta(t, 10, b.MaxY-b.MinY, 1e-9)
	assert.Greater(t, b.MaxX-b.MinX, 10.0)
	assert.InDelta(t, 5, (b.MinX+b.MaxX)/2, 1e-9)
}

func TestMarkersCountAndIcons(t *testing.T) {
	r := newTestRenderer(0)
	s := r.Draw(Scene{Points: testPoints(), Mode: Markers})

	assert.Equal(t, 3, s.Count())
	require.Len(t, s.Markers(), 3)
	assert.Equal(t, "#EF4444", s.Markers()[0].Icon.Color)
	assert.Equal(t, "#3B82F6", s.Markers()[1].Icon.Color)

	b1 := s.Markers()[2]
	assert.True(t, b1.Default, "B1 has no registered icon")
	assert.Equal(t, DefaultIcon, b1.Icon)
	assert.Equal(t, '●', s.Glyph(b1.X, b1.Y))
}

func TestMarkersOffGridStillPlaced(t *testing.T) {
	r := newTestRenderer(0)
	r.SetViewport(testViewport().Pan(100, 0))
	s := r.Draw(Scene{Points: testPoints(), Mode: Markers})
	assert.Equal(t, 3, s.Count())
	for _, line := range s.Plain() {
		assert.NotContains(t, line, "●")
	}
	_, ok := s.Nearest(5, 5)
	assert.False(t, ok)
}

func TestHeatmapCountMatchesMarkers(t *testing.T) {
	r := newTestRenderer(0)
	pts := testPoints()
	markers := r.Draw(Scene{Points: pts, Mode: Markers}).Count()
	heat := r.Draw(Scene{Points: pts, Mode: Heatmap})

	assert.Equal(t, markers, heat.Count())
	assert.Empty(t, heat.Markers())
	assert.Equal(t, Heatmap, heat.Mode())
	assert.InDelta(t, 1.0, heat.Intensity(5, 5), 1e-9)
	assert.Zero(t, heat.Intensity(0, 5))
	assert.Equal(t, '█', heat.Glyph(5, 5))
}

func TestHeatmapStacksDensity(t *testing.T) {
	r := newTestRenderer(0)
	pts := []claims.Point{{Lat: 5, Lon: 5}, {Lat: 5, Lon: 5}, {Lat: 0, Lon: 0}}
	s := r.Draw(Scene{Points: pts, Mode: Heatmap})
	assert.InDelta(t, 1.0, s.Intensity(5, 5), 1e-9)
	assert.InDelta(t, 0.5, s.Intensity(0, 10), 1e-9)
}

func TestRedrawReplacesSurface(t *testing.T) {
	r := newTestRenderer(0)
	pts := testPoints()
	first := r.Draw(Scene{Points: pts, Mode: Markers})
	second := r.Draw(Scene{Points: pts, Mode: Markers})

	assert.Equal(t, first.Plain(), second.Plain())
	assert.Len(t, second.Markers(), len(pts), "no duplicate markers after redraw")

	empty := r.Draw(Scene{Points: nil, Mode: Markers})
	assert.Zero(t, empty.Count())
	for _, line := range empty.Plain() {
		assert.NotContains(t, line, "●", "stale markers must be cleared")
	}

	heat := r.Draw(Scene{Points: pts, Mode: Heatmap})
	back := r.Draw(Scene{Points: pts[:1], Mode: Markers})
	assert.Zero(t, back.Intensity(5, 5))
	assert.NotEqual(t, heat.Plain(), back.Plain())
}

func TestRenderCacheReusesSurface(t *testing.T) {
	r := newTestRenderer(time.Minute)
	sc := Scene{Key: "v1|all|event", Points: testPoints(), Mode: Markers}
	a := r.Draw(sc)
	b := r.Draw(sc)
	assert.Same(t, a, b)

	r.SetViewport(r.Viewport().ZoomBy(1))
	c := r.Draw(sc)
	assert.NotSame(t, a, c, "viewport is part of the key")

	uncached := r.Draw(Scene{Points: testPoints(), Mode: Markers})
	assert.NotSame(t, c, uncached)
}

func TestMarkerAtPicksTopmost(t *testing.T) {
	r := newTestRenderer(0)
	pts := []claims.Point{{Lat: 5, Lon: 5, ID: "under"}, {Lat: 5, Lon: 5, ID: "over"}}
	s := r.Draw(Scene{Points: pts, Mode: Markers})

	m, ok := s.MarkerAt(5, 5, 1)
	require.True(t, ok)
	assert.Equal(t, "over", m.Point.ID)

	_, ok = s.MarkerAt(0, 0, 1)
	assert.False(t, ok)
}

func TestMarkerAtIgnoresOffGrid(t *testing.T) {
	r := newTestRenderer(0)
	s := r.Draw(Scene{Points: []claims.Point{{Lat: 5, Lon: -1, ID: "hidden"}}, Mode: Markers})
	require.Len(t, s.Markers(), 1)
	assert.Equal(t, ' ', s.Glyph(0, 5))

	_, ok := s.MarkerAt(0, 5, 1)
	assert.False(t, ok, "empty edge cell must not select a marker outside the map")
	_, ok = s.Nearest(0, 5)
	assert.False(t, ok)
}

func TestBasemapDrawnUnderMarkers(t *testing.T) {
	base := &geom.Data{Lines: [][][2]float64{{{0, 0}, {10, 0}}}}
	r := New(Options{Basemap: base})
	r.SetViewport(testViewport())
	s := r.Draw(Scene{Mode: Markers})

	bottom := []rune(s.Plain()[10])
	for x := 0; x < 11; x++ {
		assert.NotEqual(t, ' ', bottom[x], "col %d", x)
	}
	assert.Zero(t, s.Count())
}

func TestLinesHighlightsSelection(t *testing.T) {
	r := newTestRenderer(0)
	s := r.Draw(Scene{Points: testPoints(), Mode: Markers})
	sel := s.Markers()[2]
	lines := s.Lines(&sel)
	require.Len(t, lines, 11)
	assert.Contains(t, lines[sel.Y], "◉")
}

func TestIconSetFallbacks(t *testing.T) {
	set := NewIconSet(Icon{}, map[string]Icon{"X": {Color: "#000000"}})
	ic, ok := set.For("X")
	assert.True(t, ok)
	assert.Equal(t, DefaultIcon.Glyph, ic.Glyph)

	_, ok = set.For("")
	assert.False(t, ok)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Heatmap")
	require.NoError(t, err)
	assert.Equal(t, Heatmap, m)
	assert.Equal(t, Markers, m.Toggle())
	_, err = ParseMode("pins")
	assert.Error(t, err)
}
