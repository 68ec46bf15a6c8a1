package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfcord/internal/logtail"
)

const (
	logRefreshInterval = 2 * time.Second
	logBufferLimit     = 200
)

// logState holds the log pane state.
type logState struct {
	lines       []string
	follow      bool
	lastRefresh time.Time
	err         error
	dirty       bool
}

type logLinesMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the log tail in the background. Unless force is set,
// reads are rate limited to logRefreshInterval.
func (m *Model) refreshLogs(force bool) tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	if !force && time.Since(m.logState.lastRefresh) < logRefreshInterval {
		return nil
	}
	m.logState.lastRefresh = time.Now()

	path := m.logPath
	limit := m.prefs.LogLines
	return func() tea.Msg {
		lines, err := logtail.Read(path, limit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.logState.dirty = true
	m.updateLogViewport()
}

// updateLogViewport sizes the viewport and re-renders changed content.
func (m *Model) updateLogViewport() {
	width := max(m.width-4, 1)
	height := max(m.height-5, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
		m.logState.dirty = true
	}
	m.logViewport.Width = width
	m.logViewport.Height = height

	if m.logState.dirty {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.dirty = false
	}
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) renderLogContent() string {
	if len(m.logState.lines) == 0 {
		return m.theme.Styles().FaintText.Render("No log entries yet.")
	}
	return strings.Join(logtail.ColorizeLines(m.logState.lines, m.theme.LogPalette()), "\n")
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(m.width-2, 0))

	status := styles.MutedText.Render(truncateMiddle(m.logPath, max(m.width/2, 20)))
	if m.logState.follow {
		status += "  " + styles.SuccessText.Render("following")
	} else {
		status += "  " + styles.WarningText.Render("paused (space to follow)")
	}
	if m.logState.err != nil {
		status += "  " + styles.DangerText.Render(m.logState.err.Error())
	}
	return box.Render(m.logViewport.View()) + "\n" + status
}

// handleLogsKey scrolls the log pane.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs(true)
		}
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logState.follow = true
		m.logViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}
