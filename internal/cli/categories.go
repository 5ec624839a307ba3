package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"claimmap/internal/claims"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [source]",
	Short: "List claim categories with row and plottable counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		writeCategories(cmd.OutOrStdout(), cfg.Columns, tbl.Rows)
		return nil
	},
}

// writeCategories prints one line per category: rows carrying it and how
// many of those plot for each location type.
func writeCategories(w io.Writer, s claims.Schema, rows []claims.Row) {
	counts := s.CategoryCounts(rows)
	visible := func(cat string, loc claims.LocationType) string {
		return strconv.Itoa(len(s.Filter(rows, cat, loc)))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "ROWS", "EVENT", "CLAIMANT")
	total := 0
	for _, c := range s.Categories(rows) {
		total += counts[c]
		t.Row(c, strconv.Itoa(counts[c]), visible(c, claims.Event), visible(c, claims.Claimant))
	}
	t.Row("all", strconv.Itoa(total), visible("", claims.Event), visible("", claims.Claimant))
	fmt.Fprintln(w, t.Render())
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
