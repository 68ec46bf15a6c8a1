package goodreads

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// minMatchScore rejects queries that share little more than a letter or two.
const minMatchScore = 0.7

// Match returns the book whose title is most similar to query. Substring
// hits win outright; otherwise titles are ranked by Jaro-Winkler similarity.
func Match(books []Book, query string) (Book, bool) {
	needle := normalizeTitle(query)
	if needle == "" || len(books) == 0 {
		return Book{}, false
	}

	for _, b := range books {
		if strings.Contains(normalizeTitle(b.Title), needle) {
			return b, true
		}
	}

	var best Book
	var bestScore float64
	for _, b := range books {
		score := matchr.JaroWinkler(needle, normalizeTitle(b.Title), false)
		if score > bestScore {
			bestScore = score
			best = b
		}
	}
	if bestScore < minMatchScore {
		return Book{}, false
	}
	return best, true
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
