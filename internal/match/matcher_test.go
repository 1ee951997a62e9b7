package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/metadata"
)

func TestBestMatchNoCandidates(t *testing.T) {
	assert.Nil(t, BestMatch(nil, "The Hobbit", "Tolkien"))
	assert.Nil(t, BestMatch([]metadata.Candidate{}, "The Hobbit", "Tolkien"))
}

func TestBestMatchFullSignals(t *testing.T) {
	candidates := []metadata.Candidate{
		{
			Title:       "The Hobbit",
			Authors:     []string{"J.R.R. Tolkien"},
			Language:    "en",
			Description: "A hobbit goes on an adventure.",
			Images:      metadata.ImageLinks{Thumbnail: "http://img/t.jpg"},
		},
	}

	got := BestMatch(candidates, "The Hobbit", "J.R.R. Tolkien")
	require.NotNil(t, got)
	// 3*1.0 + 2 + 0.5 + 0.3 + 0.2 = 6.0
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestBestMatchBelowThreshold(t *testing.T) {
	candidates := []metadata.Candidate{
		{Title: "Completely Unrelated Work"},
	}
	assert.Nil(t, BestMatch(candidates, "The Hobbit", "Tolkien"))
}

func TestBestMatchSkipsUntitled(t *testing.T) {
	candidates := []metadata.Candidate{
		{Description: "rich but untitled", Language: "en"},
		{Title: "The Hobbit", Language: "en"},
	}
	got := BestMatch(candidates, "The Hobbit", "")
	require.NotNil(t, got)
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestBestMatchAuthorCliff(t *testing.T) {
	// Similar but not >0.7: no bonus, title-only score decides.
	weak := []metadata.Candidate{
		{Title: "The Hobbit", Authors: []string{"tolk"}},
	}
	got := BestMatch(weak, "The Hobbit", "J.R.R. Tolkien")
	require.NotNil(t, got, "title match alone clears the floor")

	// An exact author pushes a mediocre title match over a better-titled rival.
	candidates := []metadata.Candidate{
		{Title: "The Hobbit: An Illustrated Guide"},
		{Title: "The Hobbit Annotated", Authors: []string{"J.R.R. Tolkien"}},
	}
	got = BestMatch(candidates, "The Hobbit", "J.R.R. Tolkien")
	require.NotNil(t, got)
	assert.Equal(t, "The Hobbit Annotated", got.Title)
}

func TestBestMatchIgnoresUnknownAuthor(t *testing.T) {
	candidates := []metadata.Candidate{
		{Title: "The Hobbit", Authors: []string{"Unknown"}},
	}
	// Target author is the sentinel: no author bonus either way,
	// but title match still wins.
	got := BestMatch(candidates, "The Hobbit", "unknown")
	require.NotNil(t, got)
}

func TestBestMatchStableTies(t *testing.T) {
	candidates := []metadata.Candidate{
		{Title: "The Hobbit", Description: "first"},
		{Title: "The Hobbit", Description: "second"},
	}
	got := BestMatch(candidates, "The Hobbit", "")
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Description)
}
