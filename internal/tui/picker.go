package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
)

type categoryItem struct {
	name  string // "" is every category
	count int
}

func (c categoryItem) Title() string {
	if c.name == "" {
		return "all"
	}
	return c.name
}

func (c categoryItem) Description() string { return fmt.Sprintf("%d claims", c.count) }
func (c categoryItem) FilterValue() string { return c.Title() }

// refreshPicker lists "all" followed by every loaded category with its row count.
func (m *Model) refreshPicker() {
	if m.ctrl == nil {
		return
	}
	rows := m.ctrl.Rows()
	counts := m.ctrl.Schema().CategoryCounts(rows)
	total := 0
	for _, n := range counts {
		total += n
	}
	items := []list.Item{categoryItem{name: "", count: total}}
	for _, c := range m.ctrl.Categories() {
		items = append(items, categoryItem{name: c, count: counts[c]})
	}
	m.l.SetItems(items)
	m.syncPickerSelection()
}

func (m *Model) syncPickerSelection() {
	cur := m.ctrl.State().Category
	for i, it := range m.l.Items() {
		if it.(categoryItem).name == cur {
			m.l.Select(i)
			return
		}
	}
}

// pickSelected applies the highlighted picker entry.
func (m *Model) pickSelected() {
	it, ok := m.l.SelectedItem().(categoryItem)
	if !ok {
		return
	}
	m.ctrl.SetCategory(it.name)
	m.status = "category: " + it.Title()
	m.afterRun()
}
