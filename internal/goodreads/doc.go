// Package goodreads scrapes a member's currently-reading shelf.
//
// # Overview
//
// Goodreads has no public API for shelves any more, so the package fetches
// the HTML shelf page and reads the rows of its #books table:
//
//	https://www.goodreads.com/review/list/<user id>?shelf=currently-reading
//
// Each row becomes a Book with the review id, title, author, a full-size
// cover URL and the start date when one is set.
//
// # Files
//
//   - client.go: resty-based HTTP client (browser headers, 10s timeout)
//   - parse.go: goquery extraction of the shelf table
//   - book.go: the Book type, start date parsing and selection helpers
//   - match.go: fuzzy title matching for choosing a book by name
//
// # Error Handling
//
// Network failures and non-200 responses are wrapped with context. A page
// without the books table returns ErrNoTable, which in practice means the
// profile is private or the id is wrong. An empty shelf returns ErrNoBooks.
// Rows missing a title or author are skipped rather than failing the page.
//
// # Testing Considerations
//
// Fixtures under testdata/ mirror the markup of a live shelf page. Use
// httptest.Server with Options.BaseURL to exercise the client end to end.
package goodreads
