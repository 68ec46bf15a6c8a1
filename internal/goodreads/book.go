package goodreads

import (
	"strings"
	"time"
)

// NoPhotoCover is the placeholder image Goodreads serves for books without art.
const NoPhotoCover = "https://i.gr-assets.com/images/S/compressed.photo.goodreads.com/nophoto/book/111x148._SX50_.png"

// Book is one row of a user's currently-reading shelf.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverURL  string    `json:"coverUrl"`
	StartDate string    `json:"startDate"`
	Started   time.Time `json:"started"`
	URL       string    `json:"url"`
}

// Cover returns the cover image, or the no-photo placeholder.
func (b Book) Cover() string {
	if strings.TrimSpace(b.CoverURL) == "" {
		return NoPhotoCover
	}
	return b.CoverURL
}

// Label is a short "Title by Author" form used in logs and the UI.
func (b Book) Label() string {
	author := strings.TrimSpace(b.Author)
	if author == "" {
		author = "Unknown Author"
	}
	return b.Title + " by " + author
}

var startDateLayouts = []string{
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ParseStartDate parses the date_started cell text. Unknown formats return
// the zero time.
func ParseStartDate(value string) time.Time {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" || strings.EqualFold(trimmed, "not set") {
		return time.Time{}
	}
	for _, layout := range startDateLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Select returns the book whose ID matches id, falling back to the first
// book. ok is false when books is empty.
func Select(books []Book, id string) (book Book, ok bool) {
	if len(books) == 0 {
		return Book{}, false
	}
	id = strings.TrimSpace(id)
	if id != "" {
		for _, b := range books {
			if b.ID == id {
				return b, true
			}
		}
	}
	return books[0], true
}

// Index returns the position of id in books, or -1.
func Index(books []Book, id string) int {
	for i, b := range books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
