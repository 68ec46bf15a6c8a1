// Package ui implements the shelfcord terminal interface with Bubble Tea.
//
// The UI never talks to Goodreads or Discord directly. It renders snapshots
// read from state.Store on every tick and drives the poller through the
// Controller interface: pause and resume, refresh now, select the next book
// and save settings.
//
// # Views
//
//   - Status: current book, presence connection, last error and the shelf
//   - Settings: app id, user id and interval inputs, the keep running, tray
//     and startup checkboxes, and the book shown as presence
//   - Logs: a followed tail of the shelfcord log file
//
// Theme and log pane preferences persist through the prefs package. Writes to
// the config file happen in commands so a slow disk never blocks rendering.
package ui
