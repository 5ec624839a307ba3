// Package view holds the viewer's selections and reruns the
// filter, project and render pipeline whenever one of them changes.
package view

import (
	"fmt"

	"go.uber.org/zap"

	"claimmap/internal/claims"
	"claimmap/internal/geom"
	"claimmap/internal/render"
)

// DefaultExtent frames Ukraine, used when neither data nor basemap give an extent.
var DefaultExtent = geom.BBox{MinX: 22.0, MinY: 44.3, MaxX: 40.3, MaxY: 52.4}

const extentPad = 0.05

// State is what the user selected plus the derived visible count.
type State struct {
	Location claims.LocationType
	Category string // "" selects every category
	Mode     render.Mode
	Visible  int
}

func (s State) String() string {
	cat := s.Category
	if cat == "" {
		cat = "all"
	}
	return fmt.Sprintf("category=%s location=%s mode=%s visible=%d", cat, s.Location, s.Mode, s.Visible)
}

// Controller owns the loaded rows and the renderer. Every exported mutator
// runs the pipeline exactly once before returning.
type Controller struct {
	log    *zap.Logger
	schema claims.Schema
	r      *render.Renderer

	rows       []claims.Row
	categories []string
	points     []claims.Point
	version    int
	extent     geom.BBox

	state State
	w, h  int
	runs  int
}

// New builds a controller with initial selections. Nothing is drawn until
// SetRows or a viewport change.
func New(schema claims.Schema, r *render.Renderer, initial State, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	initial.Visible = 0
	c := &Controller{log: log, schema: schema, r: r, state: initial}
	c.extent = c.fallbackExtent()
	return c
}

func (c *Controller) State() State { return c.state }

// Categories lists the distinct categories of every loaded row.
func (c *Controller) Categories() []string { return c.categories }

// Points returns the points drawn by the last pipeline run.
func (c *Controller) Points() []claims.Point { return c.points }

func (c *Controller) Rows() []claims.Row { return c.rows }

func (c *Controller) Schema() claims.Schema { return c.schema }

// Surface returns the current drawing.
func (c *Controller) Surface() *render.Surface { return c.r.Surface() }

func (c *Controller) Viewport() render.Viewport { return c.r.Viewport() }

// Extent is the area a view reset frames.
func (c *Controller) Extent() geom.BBox { return c.extent }

// Runs counts pipeline executions.
func (c *Controller) Runs() int { return c.runs }

// SetRows replaces the dataset, rebuilds the category list and runs the
// pipeline. The view is reframed on the first load and whenever the data
// extent moves; a reload with the same extent keeps zoom and pan.
func (c *Controller) SetRows(rows []claims.Row) {
	first := c.version == 0
	c.rows = rows
	c.version++
	c.categories = c.schema.Categories(rows)
	if ext := c.dataExtent(); first || ext != c.extent {
		c.extent = ext
		c.r.SetViewport(render.NewViewport(c.extent, c.w, c.h))
	}
	c.log.Info("dataset loaded",
		zap.Int("rows", len(rows)),
		zap.Int("categories", len(c.categories)),
		zap.Int("version", c.version))
	c.run()
}

// SetCategory selects one category, or all with "". A category absent from
// the data is accepted and matches nothing.
func (c *Controller) SetCategory(cat string) {
	c.state.Category = cat
	c.run()
}

// CycleCategory steps through "all" followed by each known category.
func (c *Controller) CycleCategory(delta int) {
	opts := append([]string{""}, c.categories...)
	cur := 0
	for i, o := range opts {
		if o == c.state.Category {
			cur = i
			break
		}
	}
	n := len(opts)
	next := ((cur+delta)%n + n) % n
	c.SetCategory(opts[next])
}

func (c *Controller) SetLocation(loc claims.LocationType) {
	c.state.Location = loc
	c.run()
}

func (c *Controller) ToggleLocation() { c.SetLocation(c.state.Location.Toggle()) }

func (c *Controller) SetMode(m render.Mode) {
	c.state.Mode = m
	c.run()
}

func (c *Controller) ToggleMode() { c.SetMode(c.state.Mode.Toggle()) }

// SetViewport resizes the map grid, keeping zoom and pan.
func (c *Controller) SetViewport(w, h int) {
	c.w, c.h = w, h
	c.r.SetViewport(c.r.Viewport().Resize(c.extent, w, h))
	c.run()
}

func (c *Controller) Pan(dx, dy int) {
	c.r.SetViewport(c.r.Viewport().Pan(dx, dy))
	c.run()
}

// Zoom zooms in for positive steps and out for negative ones.
func (c *Controller) Zoom(steps int) {
	c.r.SetViewport(c.r.Viewport().ZoomBy(steps))
	c.run()
}

// ResetView frames the extent again at 1x with no pan.
func (c *Controller) ResetView() {
	c.r.SetViewport(render.NewViewport(c.extent, c.w, c.h))
	c.run()
}

// SetBasemap swaps the outline layer and redraws.
func (c *Controller) SetBasemap(d *geom.Data) {
	c.r.SetBasemap(d)
	if len(c.rows) == 0 {
		c.extent = c.fallbackExtent()
		c.r.SetViewport(render.NewViewport(c.extent, c.w, c.h))
	}
	c.run()
}

func (c *Controller) run() {
	rows := c.schema.Filter(c.rows, c.state.Category, c.state.Location)
	c.points = c.schema.Project(rows, c.state.Location)
	s := c.r.Draw(render.Scene{
		Key:    fmt.Sprintf("%d|%s|%s", c.version, c.state.Category, c.state.Location),
		Points: c.points,
		Mode:   c.state.Mode,
	})
	c.state.Visible = s.Count()
	c.runs++
	c.log.Debug("pipeline run", zap.Stringer("state", c.state), zap.Int("run", c.runs))
}

// dataExtent covers every valid coordinate of both location types.
func (c *Controller) dataExtent() geom.BBox {
	var b geom.BBox
	found := false
	for _, loc := range []claims.LocationType{claims.Event, claims.Claimant} {
		bb, ok := claims.Bounds(c.schema.Project(c.rows, loc))
		if !ok {
			continue
		}
		if found {
			b = b.Union(bb)
		} else {
			b, found = bb, true
		}
	}
	if !found {
		return c.fallbackExtent()
	}
	return b.Pad(extentPad, 0.5)
}

func (c *Controller) fallbackExtent() geom.BBox {
	if d := c.r.Basemap(); d != nil && d.BBox.Valid() {
		return d.BBox
	}
	return DefaultExtent
}
