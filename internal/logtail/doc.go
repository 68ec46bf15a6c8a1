// Package logtail reads the tail of shelfcord's log file and colours it for
// the terminal UI log pane.
//
// Read keeps a ring buffer of the last N lines, so memory use is bounded by
// the pane size rather than the file size. A missing file yields no lines and
// no error, which is the normal state before the first log record is written.
//
// ColorizeLine understands slog's text format:
//
//	time=2026-10-19T09:30:00 level=INFO msg="presence updated" book="Dune"
//
// The timestamp, level and attribute keys are styled with a Palette built by
// the UI from its active theme. Lines in any other format are passed through
// with the Text style.
package logtail
