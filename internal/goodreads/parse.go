package goodreads

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNoTable means the page has no #books table, usually a private or
	// missing profile.
	ErrNoTable = errors.New("no book table found")
	// ErrNoBooks means the shelf table exists but holds no readable rows.
	ErrNoBooks = errors.New("no book row found")
)

// coverSizeSuffix matches the resize token Goodreads inserts before the
// extension, e.g. "._SY75_" in "12345._SY75_.jpg".
var coverSizeSuffix = regexp.MustCompile(`(?i)\._[A-Z0-9]+_(\.(?:jpg|jpeg|png))`)

// NormalizeCover strips the thumbnail size token so Discord gets the full
// size cover.
func NormalizeCover(src string) string {
	return coverSizeSuffix.ReplaceAllString(strings.TrimSpace(src), "$1")
}

// ParseShelf extracts the books from a shelf page. Relative links are
// resolved against base; an empty base uses the public site.
func ParseShelf(r io.Reader, base string) ([]Book, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table#books").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	baseURL, err := url.Parse(defaultIfEmpty(base, DefaultBaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var books []Book
	table.Find(`tr[id^="review_"]`).Each(func(_ int, row *goquery.Selection) {
		book, ok := parseRow(row, baseURL)
		if ok {
			books = append(books, book)
		}
	})
	if len(books) == 0 {
		return nil, ErrNoBooks
	}
	return books, nil
}

func parseRow(row *goquery.Selection, base *url.URL) (Book, bool) {
	titleLink := row.Find("td.field.title a").First()
	title := cleanText(titleLink.Text())
	if title == "" {
		title = cleanText(titleLink.AttrOr("title", ""))
	}
	author := cleanText(row.Find("td.field.author a").First().Text())
	if title == "" || author == "" {
		return Book{}, false
	}

	id, _ := row.Attr("id")
	book := Book{
		ID:       strings.TrimPrefix(id, "review_"),
		Title:    title,
		Author:   author,
		CoverURL: NormalizeCover(row.Find("td.field.cover img").First().AttrOr("src", "")),
	}

	if href, ok := titleLink.Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			book.URL = base.ResolveReference(ref).String()
		}
	}

	started := row.Find("td.field.date_started span.date_started_value").First()
	if started.Length() > 0 {
		book.StartDate = cleanText(started.Text())
		book.Started = ParseStartDate(book.StartDate)
	}
	return book, true
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
