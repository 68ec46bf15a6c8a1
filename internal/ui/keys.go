package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding

	// Views
	ViewStatus key.Binding
	ViewConfig key.Binding
	ViewLogs   key.Binding

	// Presence actions
	Pause    key.Binding
	Refresh  key.Binding
	NextBook key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	Toggle    key.Binding
	Left      key.Binding
	Right     key.Binding
	Save      key.Binding

	// Log scrolling
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to status"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),

		ViewStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Status"),
		),
		ViewConfig: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Settings"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),

		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pause/resume"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),
		NextBook: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Next book"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down", "enter"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Previous book"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Next book"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save settings"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Refresh, k.NextBook, k.ViewConfig, k.ViewLogs, k.Help, k.Quit}
}

// FormHelp returns key bindings for the command bar in the settings view.
func (k keyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Toggle, k.Save, k.Escape}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewStatus, k.ViewConfig, k.ViewLogs, k.Escape},
		{k.Pause, k.Refresh, k.NextBook},
		{k.NextField, k.PrevField, k.Toggle, k.Left, k.Right, k.Save},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
