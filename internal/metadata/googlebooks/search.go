package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/metadata"
	"github.com/shelfline/shelfline-server/internal/normalize"
)

const (
	defaultLimit = 5
	maxLimit     = 40 // volumes API cap

	// Partial response: only the fields the matcher and merge use.
	responseFields = "totalItems,items(id,volumeInfo(title,authors,industryIdentifiers,categories,description,imageLinks,pageCount,maturityRating,language,publishedDate))"
)

// Search queries the volumes API for books matching title and author.
// Returns candidates in API relevance order, possibly none.
//
// The author term is omitted when it is empty or the unknown sentinel.
// Implements metadata.Searcher.
func (c *Client) Search(ctx context.Context, title, author string, limit int) ([]metadata.Candidate, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	query := buildQuery(title, author)

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("fields", responseFields)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("searching Google Books",
		"query", query,
		"limit", limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var volumes volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumes); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("Google Books search results",
		"query", query,
		"count", len(volumes.Items),
	)

	results := make([]metadata.Candidate, 0, len(volumes.Items))
	for i := range volumes.Items {
		results = append(results, volumes.Items[i].toCandidate())
	}
	return results, nil
}

// buildQuery assembles a volumes API query from title and author.
// Both terms are cleaned first since imported titles are noisy.
func buildQuery(title, author string) string {
	var b strings.Builder
	b.WriteString("intitle:")
	b.WriteString(normalize.Query(title))

	author = strings.TrimSpace(author)
	if author != "" && !strings.EqualFold(author, domain.UnknownAuthor) {
		b.WriteString(" inauthor:")
		b.WriteString(normalize.Query(author))
	}
	return b.String()
}
