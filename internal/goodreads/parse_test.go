package goodreads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseShelf_ExtractsRows(t *testing.T) {
	books, err := ParseShelf(openFixture(t, "currently_reading.html"), "")
	if err != nil {
		t.Fatalf("ParseShelf returned error: %v", err)
	}

	want := []Book{
		{
			ID:        "5551212",
			Title:     "Dune (Dune, #1)",
			Author:    "Herbert, Frank",
			CoverURL:  "https://i.gr-assets.com/images/S/compressed.photo.goodreads.com/books/1555447414l/44767458.jpg",
			StartDate: "Mar 14, 2025",
			Started:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local),
			URL:       "https://www.goodreads.com/book/show/44767458-dune",
		},
		{
			ID:       "7770001",
			Title:    "The Left Hand of Darkness",
			Author:   "Le Guin, Ursula K.",
			CoverURL: "https://i.gr-assets.com/images/S/compressed.photo.goodreads.com/books/1/2.PNG",
			URL:      "https://www.goodreads.com/book/show/18423.The_Left_Hand_of_Darkness",
		},
	}
	if diff := cmp.Diff(want, books); diff != "" {
		t.Fatalf("ParseShelf mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShelf_ResolvesAgainstBase(t *testing.T) {
	books, err := ParseShelf(openFixture(t, "currently_reading.html"), "http://127.0.0.1:9999")
	if err != nil {
		t.Fatalf("ParseShelf returned error: %v", err)
	}
	if !strings.HasPrefix(books[0].URL, "http://127.0.0.1:9999/book/show/") {
		t.Fatalf("URL = %q, want it resolved against base", books[0].URL)
	}
}

func TestParseShelf_Errors(t *testing.T) {
	tests := []struct {
		fixture string
		want    error
	}{
		{"empty_shelf.html", ErrNoBooks},
		{"private_profile.html", ErrNoTable},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			_, err := ParseShelf(openFixture(t, tt.fixture), "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseShelf error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNormalizeCover(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://x/1234._SY75_.jpg", "https://x/1234.jpg"},
		{"https://x/1234._SX50_.jpeg", "https://x/1234.jpeg"},
		{"https://x/1234._sx50_.png", "https://x/1234.png"},
		{"https://x/1234.jpg", "https://x/1234.jpg"},
		{"https://x/1234._SY75_.gif", "https://x/1234._SY75_.gif"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCover(tt.in); got != tt.want {
			t.Fatalf("NormalizeCover(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
