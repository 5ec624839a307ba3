package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"claimmap/internal/render"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.applyTable(msg.src, msg.table)
		return m, nil

	case loadErrMsg:
		m.applyError(msg.src, msg.err)
		return m, nil

	case watchStartedMsg:
		m.log.Info("watching source", zap.String("source", m.src))
		return m, waitForChange(msg.ch)

	case sourceChangedMsg:
		m.log.Info("source changed, reloading", zap.String("source", m.src))
		m.status = "source changed, reloading"
		return m, tea.Batch(m.loadCmd(), waitForChange(msg.ch))

	case tea.KeyMsg:
		// If the picker is filtering, send keys to it and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "ctrl+s":
				text := strings.TrimSpace(m.ta.Value())
				if text == "" {
					m.status = "paste: empty"
					return m, nil
				}
				m.pasteMode = false
				m.ta.Blur()
				m.applyPaste(text)
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showAttrs {
			switch msg.String() {
			case "esc", "a":
				m.showAttrs = false
				return m, nil
			case "up", "down", "pgup", "pgdown", "home", "end", "k", "j":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to the picker when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showSidebar {
		switch msg.String() {
		case "up", "down", "k", "j", "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "c":
		m.ctrl.CycleCategory(1)
		m.status = "category: " + categoryLabel(m.ctrl.State().Category)
	case "C":
		m.ctrl.CycleCategory(-1)
		m.status = "category: " + categoryLabel(m.ctrl.State().Category)
	case "t":
		m.ctrl.ToggleLocation()
		m.status = "location: " + m.ctrl.State().Location.String()
	case "m":
		m.ctrl.ToggleMode()
		m.status = "mode: " + m.ctrl.State().Mode.String()
	case "+", "=":
		m.ctrl.Zoom(1)
		m.status = fmt.Sprintf("zoom: %.2fx", m.ctrl.Viewport().Zoom)
	case "-", "_":
		m.ctrl.Zoom(-1)
		m.status = fmt.Sprintf("zoom: %.2fx", m.ctrl.Viewport().Zoom)
	case "0":
		m.ctrl.ResetView()
		m.status = "view reset"
	case "up":
		m.ctrl.Pan(0, -1)
	case "down":
		m.ctrl.Pan(0, 1)
	case "left":
		m.ctrl.Pan(-2, 0)
	case "right":
		m.ctrl.Pan(2, 0)
	case "tab":
		m.showSidebar = !m.showSidebar
		m.resize()
		if m.showSidebar {
			m.syncPickerSelection()
		}
		return m, nil
	case "enter":
		if m.showSidebar {
			m.pickSelected()
			return m, nil
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		return m, m.ta.Focus()
	case "a":
		m.showAttrs = true
		m.refreshAttrs()
		return m, nil
	case "i":
		m.inspectNearest()
		return m, nil
	case "esc":
		m.popup, m.selectedID = "", ""
		return m, nil
	case "r":
		if m.loader == nil {
			m.status = "nothing to reload"
			return m, nil
		}
		m.loading = true
		m.loadErr = nil
		m.status = "reloading " + m.src
		return m, m.loadCmd()
	case "h":
		m.helpVisible = !m.helpVisible
		return m, nil
	default:
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	m.afterRun()
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lay := m.layout()
	cx, cy := msg.X-lay.mapX, msg.Y-lay.mapY
	if cx < 0 || cy < 0 || cx >= lay.mapW || cy >= lay.mapH {
		m.hoverHasGeo = false
		return
	}
	m.hoverLon, m.hoverLat, m.hoverHasGeo = m.ctrl.Viewport().LonLat(cx, cy)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Zoom(1)
		m.afterRun()
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Zoom(-1)
		m.afterRun()
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if mk, ok := m.ctrl.Surface().MarkerAt(cx, cy, 1); ok {
			m.showMarker(mk)
		}
	}
}

// inspectNearest opens the popup for the marker closest to the map centre.
func (m *Model) inspectNearest() {
	if m.ctrl.State().Mode == render.Heatmap {
		m.popup = "heatmap has no individual markers"
		m.status = m.popup
		return
	}
	lay := m.layout()
	mk, ok := m.ctrl.Surface().Nearest(lay.mapW/2, lay.mapH/2)
	if !ok {
		m.popup = "no marker in view"
		m.status = m.popup
		return
	}
	m.showMarker(mk)
}

func (m *Model) showMarker(mk render.Marker) {
	lines := []string{mk.Point.Label}
	if mk.Point.Category != "" {
		lines = append(lines, "category: "+mk.Point.Category)
	}
	lines = append(lines, fmt.Sprintf("lat=%.5f lon=%.5f", mk.Point.Lat, mk.Point.Lon))
	m.popup = strings.Join(lines, "\n")
	m.selectedID = mk.Point.ID
	m.status = "inspect " + mk.Point.ID
}

// resize hands the current map area to the viewport.
func (m *Model) resize() {
	lay := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}
	m.ctrl.SetViewport(lay.mapW, lay.mapH)
	m.afterRun()
}

// afterRun refreshes widgets that mirror pipeline output.
func (m *Model) afterRun() {
	m.refreshPicker()
	if m.showAttrs {
		m.refreshAttrs()
	}
	if m.selectedID != "" && m.selectedMarker() == nil {
		m.popup, m.selectedID = "", ""
	}
}

func (m Model) selectedMarker() *render.Marker {
	if m.selectedID == "" {
		return nil
	}
	ms := m.ctrl.Surface().Markers()
	for i := len(ms) - 1; i >= 0; i-- {
		if ms[i].Point.ID == m.selectedID {
			return &ms[i]
		}
	}
	return nil
}

func categoryLabel(c string) string {
	if c == "" {
		return "all"
	}
	return c
}
