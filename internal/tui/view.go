package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	headerHeight = 2 // title and control bar
	footerHeight = 1
)

type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

// layout is shared by View and mouse handling so hit-testing matches drawing.
func (m Model) layout() layout {
	contentW := max(10, m.width)
	contentH := max(4, m.height-headerHeight-footerHeight)
	mapX := 0
	if m.showSidebar {
		mapX = sidebarWidth + 1
	}
	return layout{
		contentW: contentW,
		contentH: contentH,
		mapX:     mapX,
		mapY:     headerHeight,
		mapW:     max(10, contentW-mapX),
		mapH:     contentH,
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	header := titleStyle.Render(" claimmap ─ claims map ")
	header = lipgloss.NewStyle().Width(lay.contentW).Render(header)
	controls := lipgloss.NewStyle().Width(lay.contentW).Render(m.renderControls())

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Height(lay.contentH).Render(m.l.View())
	}

	mapView := lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).MaxHeight(lay.mapH).Render(m.renderMapArea(lay))

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer: status, help, then hover coords at the right edge
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	room := max(0, lay.contentW-lipgloss.Width(coords))
	status := dimStyle.MaxWidth(room).Render(" " + m.status + " ")
	help := lipgloss.NewStyle().MaxWidth(max(0, room-lipgloss.Width(status))).Render(m.renderHelp())
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).MaxHeight(footerHeight).
		Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, controls, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).MaxHeight(m.height).Render(ui)
}

// renderControls draws the three selectors and the live count.
func (m Model) renderControls() string {
	st := m.ctrl.State()
	sel := func(name, value string) string {
		return dimStyle.Render(name+": ") + selectorStyle.Render(value)
	}
	parts := []string{
		sel("category", categoryLabel(st.Category)),
		sel("location", st.Location.String()),
		sel("mode", st.Mode.String()),
		countStyle.Render(fmt.Sprintf("markers on map: %d", st.Visible)),
	}
	return " " + strings.Join(parts, "   ")
}

func (m Model) renderMapArea(lay layout) string {
	switch {
	case m.loading:
		return lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center,
			dimStyle.Render("loading "+m.src+"…"))
	case m.loadErr != nil:
		msg := fmt.Sprintf("failed to load claims\n\n%s\n\npress r to retry", m.loadErr)
		box := errorBoxStyle.MaxWidth(max(20, lay.mapW-2)).Render(msg)
		return lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.showAttrs:
		// infer a reasonable width from columns
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		return lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		return m.ta.View()
	}

	lines := m.ctrl.Surface().Lines(m.selectedMarker())
	if m.popup == "" {
		return strings.Join(lines, "\n")
	}
	// The popup replaces the bottom of the canvas so map rows keep their screen position.
	box := boxStyle.MaxWidth(min(48, max(20, lay.mapW))).Render(m.popup)
	keep := max(0, min(len(lines), lay.mapH-lipgloss.Height(box)))
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines[:keep], "\n"), box)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"c/C category",
		"t location",
		"m mode",
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab picker",
		"i inspect",
		"a table",
		"p paste",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
