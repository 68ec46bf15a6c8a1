package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/shelfcord/internal/goodreads"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	books := []goodreads.Book{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Emma"}}
	current := books[1]

	before := time.Now()
	s.Update(books, &current, nil)

	snap := s.Snapshot()
	if !snap.HasBook || snap.Current.ID != "2" {
		t.Fatalf("snapshot current = %#v, want id=2 HasBook=true", snap.Current)
	}
	if len(snap.Books) != 2 || snap.Books[0].ID != "1" {
		t.Fatalf("snapshot books = %#v, want 2 items", snap.Books)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Books[0].ID = "999"
	snap2 := s.Snapshot()
	if snap2.Books[0].ID != "1" {
		t.Fatalf("Snapshot should clone books; got id %q want 1", snap2.Books[0].ID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	book := goodreads.Book{ID: "1"}
	s.Update([]goodreads.Book{book}, &book, nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasBook != prev.HasBook || snap.Current.ID != prev.Current.ID {
		t.Fatalf("current changed on error: got %#v want %#v", snap.Current, prev.Current)
	}
	if len(snap.Books) != 1 {
		t.Fatalf("books changed on error: got %#v", snap.Books)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should wrap the stored error")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(nil, nil, errors.New("fail 1"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after one failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil, errors.New("fail 2"))
	if snap := s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after two failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, nil, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.HasBook {
		t.Fatalf("HasBook = true after update without a current book")
	}
}

func TestStore_PresenceAndFlags(t *testing.T) {
	var s Store
	next := time.Now().Add(time.Minute)

	s.SetPresence(true, nil)
	s.SetPaused(true)
	s.SetShelfURL("https://example.com/shelf")
	s.SetNextPoll(next)

	snap := s.Snapshot()
	if !snap.PresenceConnected || !snap.Paused || snap.ShelfURL != "https://example.com/shelf" || !snap.NextPoll.Equal(next) {
		t.Fatalf("snapshot = %+v", snap)
	}

	s.SetPresence(false, errors.New("discord is not running"))
	snap = s.Snapshot()
	if snap.PresenceConnected || snap.PresenceError == nil {
		t.Fatalf("presence = %v %v, want disconnected with error", snap.PresenceConnected, snap.PresenceError)
	}
}
