package tui

import (
	"fmt"
	"strings"

	table "github.com/charmbracelet/bubbles/table"
)

var attrCols = []string{"ClaimID", "Category", "Location", "Date", "Lat", "Lon"}

// refreshAttrs rebuilds the table from the points of the last pipeline run.
func (m *Model) refreshAttrs() {
	pts := m.ctrl.Points()
	if len(pts) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no visible claims"
		return
	}
	rows := make([][]string, 0, len(pts))
	for _, p := range pts {
		rows = append(rows, []string{
			p.ID,
			p.Category,
			strings.ReplaceAll(p.Location, "\n", " "),
			p.Date,
			fmt.Sprintf("%.5f", p.Lat),
			fmt.Sprintf("%.5f", p.Lon),
		})
	}

	tcols := make([]table.Column, 0, len(attrCols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for i, c := range attrCols {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len([]rune(r[i]))+1)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		trows = append(trows, table.Row(append([]string{fmt.Sprintf("%d", i+1)}, r...)))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}
