package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"claimmap/internal/claims"
	"claimmap/internal/config"
	"claimmap/internal/geom"
	"claimmap/internal/render"
	"claimmap/internal/view"
)

// newController assembles renderer, basemap and initial selections.
func newController(c config.Config, log *zap.Logger) (*view.Controller, error) {
	st, err := c.InitialState()
	if err != nil {
		return nil, err
	}
	var base *geom.Data
	if c.Basemap != "" {
		d, err := geom.LoadBasemap(c.Basemap)
		if err != nil {
			return nil, err
		}
		log.Info("basemap loaded", zap.String("path", c.Basemap),
			zap.Int("lines", len(d.Lines)), zap.Int("polygons", len(d.Polygons)))
		base = &d
	}
	r := render.New(render.Options{
		Icons:    c.IconSet(),
		Heat:     c.Heatmap,
		Basemap:  base,
		CacheTTL: c.CacheTTL,
	})
	return view.New(c.Columns, r, st, log), nil
}

// loadTable reads cfg.Source synchronously for the one-shot subcommands.
func loadTable(ctx context.Context, c config.Config, log *zap.Logger) (*claims.Table, error) {
	tbl, err := newLoader(c, log).Load(ctx, c.Source)
	if err != nil {
		return nil, err
	}
	if missing := c.Columns.Validate(tbl.Header); len(missing) > 0 {
		log.Warn("columns missing from header", zap.Strings("missing", missing))
	}
	if tbl.Skipped > 0 {
		log.Warn("malformed records skipped", zap.Int("skipped", tbl.Skipped))
	}
	return tbl, nil
}

func selection(c config.Config) (string, claims.LocationType, error) {
	st, err := c.InitialState()
	if err != nil {
		return "", claims.Event, fmt.Errorf("selection: %w", err)
	}
	return st.Category, st.Location, nil
}
