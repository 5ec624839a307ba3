package tui

import (
	"context"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"claimmap/internal/source"
	"claimmap/internal/view"
)

// Options wires the model to its data source and pipeline.
type Options struct {
	Context       context.Context
	Controller    *view.Controller
	Loader        *source.Loader // nil disables loading and reloads
	Source        string
	Watch         bool
	WatchInterval time.Duration
	Log           *zap.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string

	ctx    context.Context
	ctrl   *view.Controller
	loader *source.Loader
	src    string
	log    *zap.Logger

	watch         bool
	watchInterval time.Duration

	loading bool
	loadErr error

	// category picker
	l list.Model

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	popup      string
	selectedID string

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// visible claims table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	m := Model{
		helpVisible:   true,
		status:        "claimmap ready",
		ctx:           opts.Context,
		ctrl:          opts.Controller,
		loader:        opts.Loader,
		src:           opts.Source,
		log:           opts.Log,
		watch:         opts.Watch,
		watchInterval: opts.WatchInterval,
	}
	if m.loader != nil {
		m.src = m.loader.Resolve(opts.Source)
		m.loading = true
	}
	// picker setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Categories"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.refreshPicker()
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste claims CSV (header first). Ctrl+S to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// visible claims table
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.loader != nil {
		cmds = append(cmds, m.loadCmd())
		if m.watch {
			cmds = append(cmds, m.startWatchCmd())
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Controller exposes the pipeline, mainly for tests and the CLI.
func (m Model) Controller() *view.Controller { return m.ctrl }

// Run starts the full-screen program and blocks until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
