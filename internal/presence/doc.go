// Package presence maps the current book onto a Discord activity and keeps
// the Discord connection that publishes it.
//
// Build fixes the look of the status: the title as details, "by <author>"
// as state, the cover as the large image with "Reading via Goodreads" as its
// hover text, the start date as the elapsed clock and a "View Goodreads"
// button pointing at the shelf.
//
// Updater is driven by the poll loop. It dials on first use, closes and
// forgets the connection on any error so the next cycle redials, and skips
// sending an activity identical to the previous one.
package presence
