package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"claimmap/internal/claims"
	"claimmap/internal/geom"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Write the filtered claim points as GeoJSON or CSV",
	Long: `Loads the source, applies the --category and --location selections and
writes one point per visible claim. GeoJSON output is a FeatureCollection of
Point features; CSV output has one row per point.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cat, loc, err := selection(cfg)
		if err != nil {
			return err
		}
		tbl, err := loadTable(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		pts := cfg.Columns.Project(cfg.Columns.Filter(tbl.Rows, cat, loc), loc)

		w := cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer func() {
				if closeErr := f.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf("close output: %w", closeErr)
				}
			}()
			w = f
		}
		if err := writePoints(w, exportFormat, pts, loc); err != nil {
			return err
		}
		logger.Info("export written",
			zap.String("format", exportFormat),
			zap.Int("points", len(pts)),
			zap.String("output", exportOutput))
		return nil
	},
}

// writePoints encodes pts in format ("geojson" or "csv").
func writePoints(w io.Writer, format string, pts []claims.Point, loc claims.LocationType) error {
	switch strings.ToLower(format) {
	case "geojson", "json":
		features := make([]geom.Feature, 0, len(pts))
		for _, p := range pts {
			features = append(features, geom.PointFeature(p.Lon, p.Lat, map[string]any{
				"id":            p.ID,
				"category":      p.Category,
				"location":      p.Location,
				"date":          p.Date,
				"location_type": loc.String(),
			}))
		}
		return geom.WriteFeatures(w, features)
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"ClaimID", "Category", "LocationType", "Location", "Date", "Latitude", "Longitude"})
		for _, p := range pts {
			_ = cw.Write([]string{
				p.ID, p.Category, loc.String(), p.Location, p.Date,
				strconv.FormatFloat(p.Lat, 'f', -1, 64),
				strconv.FormatFloat(p.Lon, 'f', -1, 64),
			})
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unknown export format %q (want geojson or csv)", format)
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "geojson", "output format: geojson or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
