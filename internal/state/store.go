package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelfcord/internal/goodreads"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Books               []goodreads.Book
	Current             goodreads.Book
	HasBook             bool
	ShelfURL            string
	Paused              bool
	PresenceConnected   bool
	PresenceError       error
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
	NextPoll            time.Time
}

// IsOffline returns true when the shelf has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous shelf is
// kept but the error is recorded for visibility.
func (s *Store) Update(books []goodreads.Book, current *goodreads.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Books = cloneBooks(books)
	if current != nil {
		s.snapshot.Current = *current
		s.snapshot.HasBook = true
	} else {
		s.snapshot.Current = goodreads.Book{}
		s.snapshot.HasBook = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// SetPresence records the outcome of the last presence update.
func (s *Store) SetPresence(connected bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.PresenceConnected = connected
	s.snapshot.PresenceError = err
}

// SetPaused records the run/pause flag.
func (s *Store) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Paused = paused
}

// SetShelfURL records the public shelf link.
func (s *Store) SetShelfURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ShelfURL = url
}

// SetNextPoll records when the poller will next fetch the shelf.
func (s *Store) SetNextPoll(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.NextPoll = t
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.PresenceError != nil {
		snap.PresenceError = fmt.Errorf("%w", s.snapshot.PresenceError)
	}
	return snap
}

func cloneBooks(books []goodreads.Book) []goodreads.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]goodreads.Book, len(books))
	copy(dup, books)
	return dup
}
