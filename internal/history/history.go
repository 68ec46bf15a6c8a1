package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/five82/shelfcord/internal/goodreads"
)

const defaultHistoryPath = "~/.local/share/shelfcord/history.json"

// DefaultPath returns the default history file path.
func DefaultPath() string {
	return defaultHistoryPath
}

// Entry is one book seen on the currently-reading shelf.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

type fileData struct {
	Books map[string]Entry `json:"books"`
}

// Store records every book observed on the shelf in a local JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
	data fileData
}

// Open loads the history at path, starting empty when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: fileData{Books: make(map[string]Entry)},
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&s.data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if s.data.Books == nil {
		s.data.Books = make(map[string]Entry)
	}
	return nil
}

// Record marks books as seen at now and returns how many were new.
func (s *Store) Record(books []goodreads.Book, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, book := range books {
		if book.ID == "" {
			continue
		}
		entry, ok := s.data.Books[book.ID]
		if !ok {
			entry = Entry{ID: book.ID, FirstSeen: now}
			added++
		}
		entry.Title = book.Title
		entry.Author = book.Author
		entry.LastSeen = now
		s.data.Books[book.ID] = entry
	}
	return added
}

// Has reports whether id was ever observed.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data.Books[id]
	return ok
}

// Lookup returns the entry for id.
func (s *Store) Lookup(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data.Books[id]
	return entry, ok
}

// Entries returns all entries, most recently seen first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.data.Books))
	for _, entry := range s.data.Books {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastSeen.Equal(entries[j].LastSeen) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries
}

// Save writes the history to disk through a temp file and rename.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode history: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
