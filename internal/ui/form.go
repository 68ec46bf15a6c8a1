package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/goodreads"
)

// Form fields in focus order.
const (
	fieldAppID = iota
	fieldUserID
	fieldInterval
	fieldKeepRunning
	fieldTray
	fieldStartup
	fieldBook
	fieldCount
)

var errIntervalNotNumber = errors.New("refresh interval must be a whole number of seconds")

// configForm edits a copy of the configuration.
type configForm struct {
	inputs [3]textinput.Model // app id, user id, interval

	keepRunning    bool
	minimizeToTray bool
	runOnStartup   bool

	books   []goodreads.Book
	bookIdx int

	focus   int
	message string
	failed  bool
}

func newConfigForm(cfg config.Config, books []goodreads.Book) configForm {
	placeholders := [3]string{config.DefaultDiscordAppID, config.PlaceholderUserID, "60"}
	values := [3]string{cfg.DiscordAppID, cfg.GoodreadsUserID, strconv.Itoa(cfg.RefreshInterval)}
	limits := [3]int{32, 64, 6}

	var f configForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Prompt = ""
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	if cfg.GoodreadsUserID == config.PlaceholderUserID {
		f.inputs[fieldUserID].SetValue("")
	}

	f.keepRunning = cfg.KeepAlive()
	f.minimizeToTray = cfg.MinimizeToTray
	f.runOnStartup = cfg.RunOnStartup

	f.books = append([]goodreads.Book(nil), books...)
	f.bookIdx = goodreads.Index(f.books, cfg.LastBookID)
	if f.bookIdx < 0 && len(f.books) > 0 {
		f.bookIdx = 0
	}

	f.setFocus(fieldAppID)
	return f
}

func (f *configForm) setFocus(field int) {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *configForm) next() { f.setFocus(f.focus + 1) }
func (f *configForm) prev() { f.setFocus(f.focus - 1) }

// editingText reports whether keystrokes go to a text input.
func (f configForm) editingText() bool {
	return f.focus < len(f.inputs)
}

// toggle flips the focused checkbox, or cycles the book selection.
func (f *configForm) toggle() {
	switch f.focus {
	case fieldKeepRunning:
		f.keepRunning = !f.keepRunning
	case fieldTray:
		f.minimizeToTray = !f.minimizeToTray
	case fieldStartup:
		f.runOnStartup = !f.runOnStartup
	case fieldBook:
		f.cycleBook(1)
	}
}

func (f *configForm) cycleBook(delta int) {
	if len(f.books) == 0 {
		return
	}
	f.bookIdx = (f.bookIdx + delta + len(f.books)) % len(f.books)
}

func (f configForm) selectedBook() (goodreads.Book, bool) {
	if f.bookIdx < 0 || f.bookIdx >= len(f.books) {
		return goodreads.Book{}, false
	}
	return f.books[f.bookIdx], true
}

// updateInput forwards msg to the focused text input.
func (f *configForm) updateInput(msg tea.Msg) tea.Cmd {
	if !f.editingText() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// apply returns base with the form's values.
func (f configForm) apply(base config.Config) (config.Config, error) {
	cfg := base
	cfg.DiscordAppID = strings.TrimSpace(f.inputs[fieldAppID].Value())
	cfg.GoodreadsUserID = strings.TrimSpace(f.inputs[fieldUserID].Value())

	seconds, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldInterval].Value()))
	if err != nil || seconds <= 0 {
		return base, errIntervalNotNumber
	}
	if seconds < config.MinRefreshSeconds {
		seconds = config.MinRefreshSeconds
	}
	cfg.RefreshInterval = seconds

	cfg.SetKeepAlive(f.keepRunning)
	cfg.MinimizeToTray = f.minimizeToTray
	cfg.RunOnStartup = f.runOnStartup
	if book, ok := f.selectedBook(); ok {
		cfg.LastBookID = book.ID
	}

	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// renderConfig renders the settings form.
func (m Model) renderConfig() string {
	styles := m.theme.Styles()
	f := m.form

	label := func(field int, text string) string {
		style := styles.MutedText
		if f.focus == field {
			style = styles.AccentText.Bold(true)
		}
		return style.Width(22).Render(text)
	}
	checkbox := func(field int, text string, checked bool) string {
		box := "[ ]"
		if checked {
			box = "[x]"
		}
		return label(field, text) + styles.Text.Render(box)
	}

	var b strings.Builder
	b.WriteString(label(fieldAppID, "Discord app id") + f.inputs[fieldAppID].View() + "\n")
	b.WriteString(label(fieldUserID, "Goodreads user id") + f.inputs[fieldUserID].View() + "\n")
	b.WriteString(label(fieldInterval, "Refresh (seconds)") + f.inputs[fieldInterval].View() + "\n\n")
	b.WriteString(checkbox(fieldKeepRunning, "Keep running", f.keepRunning) +
		styles.FaintText.Render("  presence stays on after the UI closes") + "\n")
	b.WriteString(checkbox(fieldTray, "Minimize to tray", f.minimizeToTray) + "\n")
	b.WriteString(checkbox(fieldStartup, "Run on startup", f.runOnStartup) + "\n\n")

	book := styles.FaintText.Render("(shelf not loaded yet)")
	if selected, ok := f.selectedBook(); ok {
		book = styles.Text.Render(fmt.Sprintf("< %s >", truncate(selected.Label(), max(m.width-32, 20)))) +
			styles.FaintText.Render(fmt.Sprintf("  %d/%d", f.bookIdx+1, len(f.books)))
	}
	b.WriteString(label(fieldBook, "Show book") + book + "\n")

	if f.message != "" {
		b.WriteString("\n")
		if f.failed {
			b.WriteString(styles.DangerText.Render(f.message))
		} else {
			b.WriteString(styles.SuccessText.Render(f.message))
		}
		b.WriteString("\n")
	}

	return m.renderBox("Settings", b.String(), m.width, m.height-2, true)
}

// renderBox draws a titled, rounded border around content.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := lipgloss.Color(m.theme.Border)
	if focused {
		border = lipgloss.Color(m.theme.BorderFocus)
	}
	styles := m.theme.Styles()
	heading := styles.AccentText.Bold(true).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Height(max(height-2, 0))
	return box.Render(heading + "\n\n" + content)
}
