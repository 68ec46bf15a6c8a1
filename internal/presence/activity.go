package presence

import (
	"strings"
	"unicode/utf8"

	"github.com/five82/shelfcord/internal/discord"
	"github.com/five82/shelfcord/internal/goodreads"
)

const (
	largeText     = "Reading via Goodreads"
	buttonLabel   = "View Goodreads"
	unknownAuthor = "Unknown Author"
	padRune       = "\u200b"
)

// Build turns the current book into a rich presence activity. shelfURL is
// linked from the activity button; an empty URL omits the button.
func Build(book goodreads.Book, shelfURL string) discord.Activity {
	author := strings.TrimSpace(book.Author)
	if author == "" {
		author = unknownAuthor
	}

	activity := discord.Activity{
		Details: fit(book.Title),
		State:   fit("by " + author),
		Assets: &discord.Assets{
			LargeImage: book.Cover(),
			LargeText:  largeText,
		},
	}
	if !book.Started.IsZero() {
		activity.Timestamps = &discord.Timestamps{Start: book.Started.Unix()}
	}
	if shelfURL = strings.TrimSpace(shelfURL); shelfURL != "" {
		activity.Buttons = []discord.Button{{Label: buttonLabel, URL: shelfURL}}
	}
	return activity
}

// fit trims s into Discord's accepted length range for activity text.
func fit(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > discord.MaxTextLen {
		runes := []rune(s)
		s = string(runes[:discord.MaxTextLen-1]) + "…"
	}
	for utf8.RuneCountInString(s) < discord.MinTextLen {
		s += padRune
	}
	return s
}
