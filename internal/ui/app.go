package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/goodreads"
	"github.com/five82/shelfcord/internal/prefs"
	"github.com/five82/shelfcord/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewStatus View = iota
	ViewConfig
	ViewLogs
)

// Controller is the poller surface the UI drives.
type Controller interface {
	Config() config.Config
	SaveConfig(cfg config.Config) error
	SelectBook(id string) error
	Pause()
	Resume()
	Running() bool
	Refresh()
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	ConfigPath string
	LogPath    string
	PollTick   time.Duration
	Prefs      prefs.Prefs
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	controller Controller
	store      *state.Store
	configPath string
	logPath    string
	prefs      prefs.Prefs
	prefsPath  string
	pollTick   time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	form configForm

	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs.Theme = "Dracula"
	}
	if userPrefs.LogLines <= 0 {
		userPrefs.LogLines = logBufferLimit
	}

	currentView := ViewStatus
	if userPrefs.ShowLogs {
		currentView = ViewLogs
	}

	return Model{
		ctx:         ctx,
		controller:  opts.Controller,
		store:       opts.Store,
		configPath:  opts.ConfigPath,
		logPath:     opts.LogPath,
		prefs:       userPrefs,
		prefsPath:   opts.PrefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(userPrefs.Theme),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: currentView,
		logState:    logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, m.refreshLogs(true))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			m.form.message = "Save failed: " + msg.err.Error()
			m.form.failed = true
			return m, nil
		}
		m.form.message = "Saved to " + truncateMiddle(m.configPath, 60)
		m.form.failed = false
		return m, nil

	case bookSelectedMsg:
		if msg.err != nil {
			m.notice = "Select failed: " + msg.err.Error()
		} else {
			m.notice = "Showing " + msg.book.Label()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.currentView == ViewConfig {
		return m.handleConfigKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.logState.dirty = true
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView((m.currentView + 1) % 3)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView((m.currentView + 2) % 3)

	case key.Matches(msg, m.keys.ViewStatus), key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewStatus)

	case key.Matches(msg, m.keys.ViewConfig):
		return m.switchView(ViewConfig)

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			return m.switchView(ViewStatus)
		}
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Pause):
		m.togglePause()
		return m, fetchSnapshotCmd(m.store)

	case key.Matches(msg, m.keys.Refresh):
		if m.controller != nil {
			m.controller.Refresh()
			m.notice = "Refreshing shelf..."
		}
		return m, nil

	case key.Matches(msg, m.keys.NextBook):
		return m, m.selectNextBook()
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleConfigKey processes keys while the settings form is shown. Letter
// keys go to the focused text input.
func (m Model) handleConfigKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewStatus)

	case key.Matches(msg, m.keys.Save):
		return m, m.saveForm()

	case key.Matches(msg, m.keys.NextField):
		m.form.next()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.prev()
		return m, nil
	}

	if m.form.editingText() {
		return m, m.form.updateInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.form.toggle()
	case key.Matches(msg, m.keys.Right) && m.form.focus == fieldBook:
		m.form.cycleBook(1)
	case key.Matches(msg, m.keys.Left) && m.form.focus == fieldBook:
		m.form.cycleBook(-1)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == ViewConfig && m.currentView != ViewConfig {
		cfg := config.Default()
		if m.controller != nil {
			cfg = m.controller.Config()
		}
		m.form = newConfigForm(cfg, m.snapshot.Books)
	}
	m.currentView = v
	m.notice = ""

	showLogs := v == ViewLogs
	if showLogs != m.prefs.ShowLogs {
		m.prefs.ShowLogs = showLogs
		m.savePrefs()
	}
	if v == ViewLogs {
		m.updateLogViewport()
		return m, m.refreshLogs(true)
	}
	return m, nil
}

func (m *Model) togglePause() {
	if m.controller == nil {
		return
	}
	if m.controller.Running() {
		m.controller.Pause()
		m.notice = "Presence paused"
	} else {
		m.controller.Resume()
		m.notice = "Presence resumed"
	}
}

// selectNextBook advances the published book through the current shelf.
func (m *Model) selectNextBook() tea.Cmd {
	books := m.snapshot.Books
	if m.controller == nil || len(books) == 0 {
		m.notice = "No books on the shelf yet"
		return nil
	}
	idx := goodreads.Index(books, m.snapshot.Current.ID)
	next := books[(idx+1)%len(books)]
	controller := m.controller
	return func() tea.Msg {
		return bookSelectedMsg{book: next, err: controller.SelectBook(next.ID)}
	}
}

func (m *Model) saveForm() tea.Cmd {
	if m.controller == nil {
		return nil
	}
	cfg, err := m.form.apply(m.controller.Config())
	if err != nil {
		m.form.message = err.Error()
		m.form.failed = true
		return nil
	}
	m.form.message = "Saving..."
	m.form.failed = false
	controller := m.controller
	return func() tea.Msg {
		return configSavedMsg{err: controller.SaveConfig(cfg)}
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, m.prefs)
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewConfig:
		return m.renderConfig()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderStatus()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type configSavedMsg struct{ err error }

type bookSelectedMsg struct {
	book goodreads.Book
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
