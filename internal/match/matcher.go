package match

import (
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/metadata"
	"github.com/shelfline/shelfline-server/internal/normalize"
)

// Scoring weights. Title similarity dominates; the rest are small
// tie-breaking signals favoring richer candidates.
const (
	titleWeight = 3.0

	// authorBonus is granted only when some candidate author clears
	// authorThreshold. The hard cliff is intentional: partial author
	// credit below the threshold is ignored.
	authorBonus     = 2.0
	authorThreshold = 0.7

	englishBonus     = 0.5
	descriptionBonus = 0.3
	imageBonus       = 0.2

	// minScore is the confidence floor. A best candidate at or below
	// this is discarded rather than risk a bad merge.
	minScore = 1.0
)

// BestMatch scores each candidate against the target title/author and
// returns the best one, or nil when no candidate clears the confidence
// floor. Ties keep the first-seen candidate.
func BestMatch(candidates []metadata.Candidate, targetTitle, targetAuthor string) *metadata.Candidate {
	var best *metadata.Candidate
	bestScore := 0.0

	useAuthor := hasUsableAuthor(targetAuthor)

	for i := range candidates {
		c := &candidates[i]
		if c.Title == "" {
			continue
		}

		score := titleWeight * Similarity(c.Title, targetTitle)

		if useAuthor {
			for _, a := range c.Authors {
				if Similarity(a, targetAuthor) > authorThreshold {
					score += authorBonus
					break
				}
			}
		}

		if normalize.Language(c.Language) == "en" {
			score += englishBonus
		}
		if c.Description != "" {
			score += descriptionBonus
		}
		if c.Images.Best() != "" {
			score += imageBonus
		}

		if score > bestScore {
			best = c
			bestScore = score
		}
	}

	if bestScore <= minScore {
		return nil
	}
	return best
}

func hasUsableAuthor(author string) bool {
	author = strings.TrimSpace(author)
	return author != "" && !strings.EqualFold(author, domain.UnknownAuthor)
}
