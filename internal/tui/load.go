package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"claimmap/internal/claims"
	"claimmap/internal/source"
)

type loadedMsg struct {
	src   string
	table *claims.Table
}

type loadErrMsg struct {
	src string
	err error
}

type watchStartedMsg struct{ ch <-chan struct{} }

type sourceChangedMsg struct{ ch <-chan struct{} }

// loadCmd fetches and parses the source off the UI goroutine.
func (m Model) loadCmd() tea.Cmd {
	ctx, loader, src := m.ctx, m.loader, m.src
	return func() tea.Msg {
		tbl, err := loader.Load(ctx, src)
		if err != nil {
			return loadErrMsg{src: src, err: err}
		}
		return loadedMsg{src: src, table: tbl}
	}
}

func (m Model) startWatchCmd() tea.Cmd {
	ctx, src, interval, log := m.ctx, m.src, m.watchInterval, m.log
	return func() tea.Msg {
		ch, err := source.Watch(ctx, src, interval, log)
		if err != nil {
			log.Warn("watch disabled", zap.Error(err))
			return nil
		}
		return watchStartedMsg{ch: ch}
	}
}

// waitForChange blocks until the watcher signals; a closed channel ends the loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sourceChangedMsg{ch: ch}
	}
}

// applyTable hands a parsed document to the pipeline.
func (m *Model) applyTable(src string, tbl *claims.Table) {
	m.loading = false
	m.loadErr = nil
	m.ctrl.SetRows(tbl.Rows)

	status := fmt.Sprintf("loaded %s: %d rows", src, len(tbl.Rows))
	if tbl.Skipped > 0 {
		status += fmt.Sprintf(", %d malformed skipped", tbl.Skipped)
	}
	if missing := m.ctrl.Schema().Validate(tbl.Header); len(missing) > 0 {
		m.log.Warn("columns missing from header",
			zap.String("source", src), zap.Strings("missing", missing))
		status += "  missing columns: " + strings.Join(missing, ",")
	}
	m.status = status
	m.afterRun()
}

// applyError enters the visible error state. Rows are dropped so the count reads 0.
func (m *Model) applyError(src string, err error) {
	m.loading = false
	m.loadErr = err
	m.log.Error("load failed", zap.String("source", src), zap.Error(err))
	m.ctrl.SetRows(nil)
	m.status = "load failed: press r to retry"
	m.afterRun()
}

func (m *Model) applyPaste(text string) {
	tbl, err := claims.Parse(strings.NewReader(text))
	if err != nil {
		m.status = "paste: " + err.Error()
		return
	}
	m.applyTable("<pasted>", tbl)
}
