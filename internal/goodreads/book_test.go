package goodreads

import (
	"testing"
	"time"
)

func TestParseStartDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"Mar 14, 2025", time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local)},
		{" Mar  4,  2025 ", time.Date(2025, time.March, 4, 0, 0, 0, 0, time.Local)},
		{"September 3, 2024", time.Date(2024, time.September, 3, 0, 0, 0, 0, time.Local)},
		{"Jan 2024", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)},
		{"2023", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local)},
		{"not set", time.Time{}},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseStartDate(tt.in); !got.Equal(tt.want) {
			t.Fatalf("ParseStartDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	books := []Book{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}

	if got, ok := Select(books, "2"); !ok || got.ID != "2" {
		t.Fatalf("Select(2) = %+v, %v; want book 2", got, ok)
	}
	if got, ok := Select(books, "missing"); !ok || got.ID != "1" {
		t.Fatalf("Select(missing) = %+v, %v; want first book", got, ok)
	}
	if got, ok := Select(books, ""); !ok || got.ID != "1" {
		t.Fatalf("Select(\"\") = %+v, %v; want first book", got, ok)
	}
	if _, ok := Select(nil, "1"); ok {
		t.Fatalf("Select(nil) ok = true, want false")
	}
}

func TestBookHelpers(t *testing.T) {
	b := Book{Title: "Dune"}
	if b.Cover() != NoPhotoCover {
		t.Fatalf("Cover() = %q, want placeholder", b.Cover())
	}
	if b.Label() != "Dune by Unknown Author" {
		t.Fatalf("Label() = %q", b.Label())
	}
	b.CoverURL = "https://x/1.jpg"
	b.Author = "Frank Herbert"
	if b.Cover() != "https://x/1.jpg" || b.Label() != "Dune by Frank Herbert" {
		t.Fatalf("helpers = %q, %q", b.Cover(), b.Label())
	}
	if Index([]Book{{ID: "a"}, {ID: "b"}}, "b") != 1 || Index(nil, "b") != -1 {
		t.Fatalf("Index mismatch")
	}
}

func TestMatch(t *testing.T) {
	books := []Book{
		{ID: "1", Title: "Dune (Dune, #1)"},
		{ID: "2", Title: "The Left Hand of Darkness"},
	}

	if got, ok := Match(books, "left hand"); !ok || got.ID != "2" {
		t.Fatalf("Match(left hand) = %+v, %v; want book 2", got, ok)
	}
	if got, ok := Match(books, "The Left Hnad of Darkness"); !ok || got.ID != "2" {
		t.Fatalf("Match(typo) = %+v, %v; want book 2", got, ok)
	}
	if got, ok := Match(books, "dune"); !ok || got.ID != "1" {
		t.Fatalf("Match(dune) = %+v, %v; want book 1", got, ok)
	}
	if _, ok := Match(books, "zzzzzzzzzzzzzzzz"); ok {
		t.Fatalf("Match(zzz) ok = true, want false")
	}
	if _, ok := Match(books, "   "); ok {
		t.Fatalf("Match(blank) ok = true, want false")
	}
}
