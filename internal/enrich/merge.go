package enrich

import (
	"strings"

	"github.com/shelfline/shelfline-server/internal/classify"
	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/metadata"
)

// mergeRule fills one record field from a matched candidate, gated on the
// field currently being empty. Keeping the rules in one table means the
// single, batch, and scan enrichment paths cannot drift apart.
type mergeRule struct {
	name  string
	empty func(*domain.Book) bool
	apply func(*domain.Book, *metadata.Candidate)
}

var mergeRules = []mergeRule{
	{
		name: "author",
		// The "unknown" placeholder counts as empty.
		empty: func(b *domain.Book) bool { return !b.HasKnownAuthor() },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			if len(c.Authors) > 0 && strings.TrimSpace(c.Authors[0]) != "" {
				b.Author = strings.TrimSpace(c.Authors[0])
			}
		},
	},
	{
		name:  "isbn",
		empty: func(b *domain.Book) bool { return b.ISBN == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			if isbn := c.ISBN(); isbn != "" {
				b.ISBN = isbn
			}
		},
	},
	{
		name:  "description",
		empty: func(b *domain.Book) bool { return b.Description == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			if c.Description != "" {
				b.Description = c.Description
			}
		},
	},
	{
		name:  "image_url",
		empty: func(b *domain.Book) bool { return b.ImageURL == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			if url := c.Images.Best(); url != "" {
				b.ImageURL = url
			}
		},
	},
	{
		name:  "genre",
		empty: func(b *domain.Book) bool { return b.Genre == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			b.Genre = classify.DetectGenre(c.Categories, c.Description, c.Title)
		},
	},
	{
		name:  "ar_level",
		empty: func(b *domain.Book) bool { return b.ARLevel == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			level := classify.GenerateReadingLevel(c.PageCount, c.MaturityRating, c.Categories)
			b.ARLevel = level.ARBand
		},
	},
	{
		name:  "lexile",
		empty: func(b *domain.Book) bool { return b.Lexile == "" },
		apply: func(b *domain.Book, c *metadata.Candidate) {
			level := classify.GenerateReadingLevel(c.PageCount, c.MaturityRating, c.Categories)
			b.Lexile = level.LexileBand
		},
	},
}

// mergeCandidate copies candidate metadata into the record. Fields in the
// rule table are filled only when currently empty; page_count, categories,
// and maturity_rating are supplementary metadata and always overwritten.
func mergeCandidate(book *domain.Book, candidate *metadata.Candidate) {
	for _, rule := range mergeRules {
		if rule.empty(book) {
			rule.apply(book, candidate)
		}
	}

	book.PageCount = candidate.PageCount
	book.Categories = candidate.Categories
	book.MaturityRating = candidate.MaturityRating
}
