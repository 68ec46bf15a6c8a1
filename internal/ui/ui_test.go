package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/discord"
	"github.com/five82/shelfcord/internal/goodreads"
	"github.com/five82/shelfcord/internal/state"
)

type fakeController struct {
	cfg       config.Config
	paused    bool
	refreshes int
	saved     []config.Config
	selected  []string
	saveErr   error
}

func (f *fakeController) Config() config.Config { return f.cfg }
func (f *fakeController) SaveConfig(cfg config.Config) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, cfg)
	f.cfg = cfg
	return nil
}
func (f *fakeController) SelectBook(id string) error {
	f.selected = append(f.selected, id)
	return nil
}
func (f *fakeController) Pause()        { f.paused = true }
func (f *fakeController) Resume()       { f.paused = false }
func (f *fakeController) Running() bool { return !f.paused }
func (f *fakeController) Refresh()      { f.refreshes++ }

var shelf = []goodreads.Book{
	{ID: "1", Title: "Dune", Author: "Frank Herbert"},
	{ID: "2", Title: "Emma", Author: "Jane Austen"},
	{ID: "3", Title: "Kindred", Author: "Octavia E. Butler"},
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, fc *fakeController) Model {
	t.Helper()
	m := New(Options{Controller: fc})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func withShelf(t *testing.T, m Model, currentIdx int) Model {
	t.Helper()
	current := shelf[currentIdx]
	return update(t, m, snapshotMsg(state.Snapshot{
		Books:       shelf,
		Current:     current,
		HasBook:     true,
		LastUpdated: time.Now(),
	}))
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 || names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("missing"); got != "Dracula" {
		t.Fatalf("NextTheme(missing) = %q, want Dracula", got)
	}
	if got := GetTheme("missing").Name; got != "Dracula" {
		t.Fatalf("GetTheme(missing).Name = %q, want Dracula", got)
	}
}

func TestModel_PauseToggle(t *testing.T) {
	fc := &fakeController{cfg: config.Default()}
	m := newTestModel(t, fc)

	m = update(t, m, runes("p"))
	if !fc.paused {
		t.Fatal("controller not paused after p")
	}
	m = update(t, m, runes("p"))
	if fc.paused {
		t.Fatal("controller still paused after second p")
	}
	_ = update(t, m, runes("r"))
	if fc.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", fc.refreshes)
	}
}

func TestModel_NextBookWraps(t *testing.T) {
	tests := []struct {
		current int
		want    string
	}{
		{0, "2"},
		{1, "3"},
		{2, "1"},
	}
	for _, tt := range tests {
		fc := &fakeController{cfg: config.Default()}
		m := withShelf(t, newTestModel(t, fc), tt.current)

		m, cmd := updateCmd(t, m, runes("b"))
		if cmd == nil {
			t.Fatalf("b with current %d returned no command", tt.current)
		}
		m = update(t, m, cmd())
		if len(fc.selected) != 1 || fc.selected[0] != tt.want {
			t.Fatalf("selected = %v, want [%s]", fc.selected, tt.want)
		}
		if !strings.Contains(m.notice, shelf[goodreads.Index(shelf, tt.want)].Title) {
			t.Fatalf("notice = %q, want selected title", m.notice)
		}
	}
}

func TestModel_NextBookWithoutShelf(t *testing.T) {
	fc := &fakeController{cfg: config.Default()}
	m := newTestModel(t, fc)

	m, cmd := updateCmd(t, m, runes("b"))
	if cmd != nil {
		t.Fatal("b without a shelf should not return a command")
	}
	if m.notice == "" {
		t.Fatal("expected a notice when the shelf is empty")
	}
}

func TestModel_SettingsFormSaves(t *testing.T) {
	fc := &fakeController{cfg: config.Default()}
	m := withShelf(t, newTestModel(t, fc), 0)

	m = update(t, m, runes("c"))
	if m.currentView != ViewConfig {
		t.Fatalf("currentView = %v, want ViewConfig", m.currentView)
	}

	// app id -> user id; letters typed here must not trigger global keys.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("quietreader"))
	if fc.paused || m.currentView != ViewConfig {
		t.Fatal("typing into the form triggered global keys")
	}

	// user id -> interval -> keep running; toggle it off.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	// keep running -> tray -> startup -> book; pick the second book.
	for i := 0; i < 3; i++ {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("ctrl+s returned no command; form message %q", m.form.message)
	}
	m = update(t, m, cmd())

	if len(fc.saved) != 1 {
		t.Fatalf("saved %d configs, want 1", len(fc.saved))
	}
	got := fc.saved[0]
	if got.GoodreadsUserID != "quietreader" {
		t.Fatalf("GoodreadsUserID = %q, want quietreader", got.GoodreadsUserID)
	}
	if got.KeepAlive() {
		t.Fatal("KeepAlive() = true, want false after toggle")
	}
	if got.LastBookID != "2" {
		t.Fatalf("LastBookID = %q, want 2", got.LastBookID)
	}
	if got.RefreshInterval != 60 {
		t.Fatalf("RefreshInterval = %d, want 60", got.RefreshInterval)
	}
	if m.form.failed {
		t.Fatalf("form reports failure: %q", m.form.message)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewStatus {
		t.Fatalf("currentView = %v after esc, want ViewStatus", m.currentView)
	}
}

func TestModel_SettingsFormRejectsPlaceholderUser(t *testing.T) {
	fc := &fakeController{cfg: config.Default()}
	m := newTestModel(t, fc)

	m = update(t, m, runes("c"))
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("ctrl+s with an unset user id should not save")
	}
	if !m.form.failed || !strings.Contains(m.form.message, "goodreads user id") {
		t.Fatalf("form message = %q, want user id error", m.form.message)
	}
	if len(fc.saved) != 0 {
		t.Fatalf("saved = %v, want none", fc.saved)
	}
}

func TestModel_SaveErrorShown(t *testing.T) {
	cfg := config.Default()
	cfg.GoodreadsUserID = "reader"
	fc := &fakeController{cfg: cfg, saveErr: errors.New("disk full")}
	m := newTestModel(t, fc)

	m = update(t, m, runes("c"))
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s returned no command")
	}
	m = update(t, m, cmd())
	if !m.form.failed || !strings.Contains(m.form.message, "disk full") {
		t.Fatalf("form message = %q, want save error", m.form.message)
	}
}

func TestConfigForm_Apply(t *testing.T) {
	cfg := config.Default()
	cfg.GoodreadsUserID = "reader"
	cfg.LastBookID = "3"

	f := newConfigForm(cfg, shelf)
	if f.bookIdx != 2 {
		t.Fatalf("bookIdx = %d, want 2", f.bookIdx)
	}
	f.cycleBook(1)
	if f.bookIdx != 0 {
		t.Fatalf("bookIdx after wrap = %d, want 0", f.bookIdx)
	}

	f.inputs[fieldInterval].SetValue("5")
	got, err := f.apply(cfg)
	if err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got.RefreshInterval != config.MinRefreshSeconds {
		t.Fatalf("RefreshInterval = %d, want %d", got.RefreshInterval, config.MinRefreshSeconds)
	}
	if got.LastBookID != "1" {
		t.Fatalf("LastBookID = %q, want 1", got.LastBookID)
	}

	f.inputs[fieldInterval].SetValue("soon")
	if _, err := f.apply(cfg); !errors.Is(err, errIntervalNotNumber) {
		t.Fatalf("apply() error = %v, want errIntervalNotNumber", err)
	}
}

func TestPresenceStatus(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"before first poll", state.Snapshot{}, statusIdle},
		{"empty shelf", state.Snapshot{LastUpdated: time.Now()}, statusNoBook},
		{"reading", state.Snapshot{HasBook: true, PresenceConnected: true, LastUpdated: time.Now()}, statusReading},
		{"discord down", state.Snapshot{HasBook: true, LastUpdated: time.Now()}, statusIdle},
		{"paused", state.Snapshot{HasBook: true, Paused: true}, statusPaused},
		{"offline", state.Snapshot{HasBook: true, ConsecutiveFailures: 3}, statusOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Model{snapshot: tt.snap}
			if got := m.presenceStatus(); got != tt.want {
				t.Fatalf("presenceStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{config.ErrPlaceholderUser, "Set your Goodreads user id (c)"},
		{goodreads.ErrNoTable, "Shelf not readable (private profile?)"},
		{discord.ErrNotRunning, "Discord not running"},
		{errors.New("goodreads returned status 404"), "Goodreads user not found"},
		{errors.New("context deadline exceeded"), "Timed out"},
		{errors.New("weird"), "Error"},
	}
	for _, tt := range tests {
		if got := classifyError(tt.err); got != tt.want {
			t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHumanizeDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{70 * time.Second, "1m10s"},
		{5 * time.Minute, "5m"},
		{1500 * time.Millisecond, "2s"},
	}
	for _, tt := range tests {
		if got := humanizeDuration(tt.in); got != tt.want {
			t.Errorf("humanizeDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("The Left Hand of Darkness", 10); got != "The Lef..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Dune", 10); got != "Dune" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncateMiddle("/home/reader/.local/share/shelfcord/shelfcord.log", 20); len(got) != 20 {
		t.Fatalf("truncateMiddle len = %d, want 20 (%q)", len(got), got)
	}
}

func TestView_ShowsCurrentBook(t *testing.T) {
	fc := &fakeController{cfg: config.Default()}
	m := withShelf(t, newTestModel(t, fc), 0)

	view := m.View()
	for _, want := range []string{"shelfcord", "Dune", "Frank Herbert", "Currently reading (3)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}

	m = update(t, m, runes("h"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}
