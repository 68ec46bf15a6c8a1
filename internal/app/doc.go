// Package app wires configuration, the shelf poller, presence and the UI into
// the shelfcord application.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read or create config.json
//	       ├─────> logging.Setup()      Open the log file
//	       ├─────> history.Open()       Books seen on the shelf
//	       ├─────> goodreads.NewClient()
//	       ├─────> presence.NewUpdater()
//	       ├─────> Poller.Run()         Background goroutine
//	       └─────> ui.Run()             TUI (blocks unless headless)
//
// # Poller
//
// Each cycle fetches the currently-reading shelf, records new books, picks
// the saved selection (or the first row) and publishes it as Discord
// presence. Shelf failures back off from 10 seconds, doubling up to 5
// minutes. Between polls the loop waits in one-second steps so that pause,
// refresh and quit take effect promptly.
//
// The three flags are the run/pause atomic, the keep-alive atomic (from the
// keepRunning setting) and context cancellation for quit. Pausing clears the
// presence once. When the UI closes with keep-alive set, Run keeps polling
// until the context is cancelled; otherwise it clears presence and returns.
package app
