package ui

import (
	"fmt"
	"strings"
)

// renderStatus renders the current book, presence state and the shelf.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	row := func(label, value string) string {
		return styles.MutedText.Width(14).Render(label) + value + "\n"
	}

	var b strings.Builder
	if snap.HasBook {
		book := snap.Current
		b.WriteString(row("Title", styles.Text.Bold(true).Render(book.Title)))
		author := book.Author
		if author == "" {
			author = "Unknown Author"
		}
		b.WriteString(row("Author", styles.Text.Render(author)))
		started := "not set"
		if !book.Started.IsZero() {
			started = book.Started.Format("Jan 2, 2006")
		}
		b.WriteString(row("Started", styles.Text.Render(started)))
		if book.URL != "" {
			b.WriteString(row("Link", styles.InfoText.Render(book.URL)))
		}
	} else if snap.LastUpdated.IsZero() {
		b.WriteString(styles.WarningText.Render("Reading shelf..."))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.MutedText.Render("Nothing on the currently-reading shelf."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(row("Presence", m.presenceLine()))
	if snap.ShelfURL != "" {
		b.WriteString(row("Shelf", styles.FaintText.Render(snap.ShelfURL)))
	}
	if snap.LastError != nil {
		b.WriteString(row("Last error", styles.DangerText.Render(snap.LastError.Error())))
		if snap.ConsecutiveFailures > 1 {
			b.WriteString(row("", styles.MutedText.Render(fmt.Sprintf("%d failed polls in a row", snap.ConsecutiveFailures))))
		}
	}

	if len(snap.Books) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Currently reading (%d)", len(snap.Books))))
		b.WriteString("\n")
		width := max(m.width-8, 20)
		for _, book := range snap.Books {
			line := truncate(book.Label(), width)
			if snap.HasBook && book.ID == snap.Current.ID {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString(styles.Text.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	return m.renderBox("Now reading", b.String(), m.width, m.height-2, false)
}

func (m Model) presenceLine() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	switch {
	case snap.Paused:
		return styles.WarningText.Render("paused (p to resume)")
	case snap.PresenceConnected:
		return styles.SuccessText.Render("connected to Discord")
	case snap.PresenceError != nil:
		return styles.DangerText.Render("disconnected: " + classifyError(snap.PresenceError))
	default:
		return styles.MutedText.Render("not connected")
	}
}
