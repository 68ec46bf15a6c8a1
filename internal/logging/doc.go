// Package logging builds the slog logger used by shelfcord.
//
// Records always go to a text log file with second-resolution timestamps,
// which the UI log pane tails. Headless runs additionally mirror records to
// stderr through tint.
package logging
