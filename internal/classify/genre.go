// Package classify derives coarse genre codes and reading-difficulty bands
// from candidate metadata signals. All lookups are deterministic.
package classify

import "strings"

// Genre codes assigned to catalog records.
const (
	GenreRomance    = "Romance"
	GenreMystery    = "Mystery"
	GenreFantasy    = "Fantasy"
	GenreAdventure  = "Adventure"
	GenreFiction    = "Fiction"
	GenreBiography  = "Biography"
	GenreScience    = "Science"
	GenreHistory    = "History"
	GenreNonFiction = "Non-Fiction"
)

// genreRule maps substring keywords to a genre code.
type genreRule struct {
	code     string
	keywords []string
}

// categoryRules are checked per category tag in priority order:
// fiction sub-genres before non-fiction sub-genres. The first rule a
// category matches wins for that category; the first category with any
// match wins overall.
var categoryRules = []genreRule{
	{GenreRomance, []string{"romance"}},
	{GenreMystery, []string{"mystery", "thriller"}},
	{GenreFantasy, []string{"fantasy"}},
	{GenreAdventure, []string{"adventure"}},
	{GenreFiction, []string{"fiction"}},
	{GenreBiography, []string{"biography"}},
	{GenreScience, []string{"science", "technology"}},
	{GenreHistory, []string{"history"}},
	{GenreNonFiction, []string{"non-fiction", "nonfiction"}},
}

// textRules are applied to description+title when no category matched.
// Order differs from categoryRules: factual signals like "biography"
// in prose are stronger than genre words.
var textRules = []genreRule{
	{GenreBiography, []string{"biography", "memoir"}},
	{GenreMystery, []string{"mystery", "detective", "murder"}},
	{GenreRomance, []string{"romance", "love story"}},
	{GenreFantasy, []string{"fantasy", "magic", "dragon"}},
	{GenreAdventure, []string{"adventure", "journey", "quest"}},
	{GenreScience, []string{"science", "technology"}},
	{GenreHistory, []string{"history", "historical"}},
	{GenreNonFiction, []string{"true story", "non-fiction", "nonfiction"}},
}

// DetectGenre derives a coarse genre code from category tags, falling
// back to scanning the description and title. Defaults to Fiction.
func DetectGenre(categories []string, description, title string) string {
	for _, category := range categories {
		c := strings.ToLower(category)
		for _, rule := range categoryRules {
			if matchesAny(c, rule.keywords) {
				return rule.code
			}
		}
	}

	text := strings.ToLower(description + " " + title)
	for _, rule := range textRules {
		if matchesAny(text, rule.keywords) {
			return rule.code
		}
	}

	return GenreFiction
}

func matchesAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
