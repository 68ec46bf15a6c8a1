// Package state provides thread-safe state sharing between the shelf poller
// and the terminal UI.
//
// # Overview
//
// The poller is the single writer: after each fetch it records the shelf,
// the selected book and the outcome of the presence update. The UI reads a
// Snapshot on its own tick and renders it.
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchShelf()   │            │                 │
//	│ Update()       │───────────→│ Snapshot()      │
//	│ SetPresence()  │  (mutex)   │ render status   │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
// A failed poll keeps the previous shelf and book so the UI keeps showing
// the last good data, records LastError and increments ConsecutiveFailures.
// A successful poll replaces the shelf and resets the failure count.
//
// Snapshot returns copies of the book slice and error values, so callers may
// hold on to a snapshot without further locking.
//
// The zero Store is ready to use.
package state
