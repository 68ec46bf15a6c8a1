package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfcord/internal/config"
	"github.com/five82/shelfcord/internal/discord"
	"github.com/five82/shelfcord/internal/goodreads"
)

// Presence badge labels.
const (
	statusReading = "READING"
	statusPaused  = "PAUSED"
	statusIdle    = "IDLE"
	statusOffline = "OFFLINE"
	statusNoBook  = "NO BOOK"
)

// presenceStatus classifies the snapshot into a badge label.
func (m Model) presenceStatus() string {
	switch {
	case m.snapshot.Paused:
		return statusPaused
	case m.snapshot.IsOffline():
		return statusOffline
	case !m.snapshot.HasBook:
		if m.snapshot.LastUpdated.IsZero() {
			return statusIdle
		}
		return statusNoBook
	case m.snapshot.PresenceConnected:
		return statusReading
	default:
		return statusIdle
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	status := m.presenceStatus()
	parts := []string{
		bg.Render("shelfcord", styles.Logo),
		styles.StatusStyle(status).Render(status),
	}

	if m.snapshot.HasBook {
		title := truncate(m.snapshot.Current.Title, max(m.width/3, 12))
		parts = append(parts, bg.Render(title, styles.Text))
	}

	if m.snapshot.LastError != nil {
		parts = append(parts, bg.Render(classifyError(m.snapshot.LastError), styles.DangerText))
	} else if m.snapshot.PresenceError != nil && !m.snapshot.Paused {
		parts = append(parts, bg.Render(classifyError(m.snapshot.PresenceError), styles.WarningText))
	}

	parts = append(parts, bg.Render(m.formatTimestamp(), styles.MutedText))

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// formatTimestamp describes when the shelf was last read.
func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return "waiting for first poll"
	}
	label := "updated " + m.snapshot.LastUpdated.Format("15:04:05")
	if !m.snapshot.NextPoll.IsZero() && !m.snapshot.Paused {
		if until := time.Until(m.snapshot.NextPoll); until > 0 {
			label += " · next in " + humanizeDuration(until)
		}
	}
	return label
}

// classifyError turns common failures into a short header label.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrPlaceholderUser):
		return "Set your Goodreads user id (c)"
	case errors.Is(err, config.ErrInvalidAppID):
		return "Invalid Discord app id"
	case errors.Is(err, goodreads.ErrNoTable):
		return "Shelf not readable (private profile?)"
	case errors.Is(err, discord.ErrNotRunning):
		return "Discord not running"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "Timed out"
	case strings.Contains(msg, "status 404"):
		return "Goodreads user not found"
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "connection refused"):
		return "Network unavailable"
	default:
		return "Error"
	}
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	h := m.help
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText

	bindings := m.keys.ShortHelp()
	if m.currentView == ViewConfig {
		bindings = m.keys.FormHelp()
	}
	bar := h.ShortHelpView(bindings)
	if m.notice != "" {
		bar += "  " + styles.InfoText.Render(m.notice)
	}
	return styles.Header.Width(m.width).Render(bar)
}

// humanizeDuration formats d rounded to seconds, dropping a zero seconds part.
func humanizeDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Minute && d%time.Minute == 0 {
		return strings.TrimSuffix(d.String(), "0s")
	}
	return d.String()
}

// truncate truncates a string to max runes with ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
