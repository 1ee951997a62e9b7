// Package metadata defines the contract between the catalog and external
// book-metadata search providers.
package metadata

import (
	"context"
	"strings"
)

// Identifier is a typed industry identifier attached to a candidate,
// e.g. ("ISBN_13", "9780439708180").
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ImageLinks holds the cover image URLs a provider returned, by size.
type ImageLinks struct {
	Thumbnail string `json:"thumbnail,omitempty"`
	Small     string `json:"small,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Large     string `json:"large,omitempty"`
}

// Best returns the first non-empty link, preferring the thumbnail.
func (il ImageLinks) Best() string {
	for _, u := range []string{il.Thumbnail, il.Small, il.Medium, il.Large} {
		if u != "" {
			return u
		}
	}
	return ""
}

// Candidate is a single external search hit. Candidates are ephemeral:
// produced per search call, consumed by the matcher, never persisted.
type Candidate struct {
	Title          string       `json:"title"`
	Authors        []string     `json:"authors,omitempty"`
	Identifiers    []Identifier `json:"identifiers,omitempty"`
	Categories     []string     `json:"categories,omitempty"`
	Description    string       `json:"description,omitempty"`
	Images         ImageLinks   `json:"images"`
	PageCount      int          `json:"page_count,omitempty"`
	MaturityRating string       `json:"maturity_rating,omitempty"`
	Language       string       `json:"language,omitempty"`
	PublishedDate  string       `json:"published_date,omitempty"`
}

// ISBN returns the value of the first identifier whose type contains
// "ISBN", or "" if the candidate has none.
func (c *Candidate) ISBN() string {
	for _, id := range c.Identifiers {
		if strings.Contains(strings.ToUpper(id.Type), "ISBN") && id.Value != "" {
			return id.Value
		}
	}
	return ""
}

// Searcher is implemented by external metadata search providers.
//
// Implementations must apply a request timeout. Transport and HTTP
// failures are returned as errors; callers that want miss semantics
// (the enrichment orchestrator does) treat any error as zero candidates.
type Searcher interface {
	Search(ctx context.Context, title, author string, limit int) ([]Candidate, error)
}
