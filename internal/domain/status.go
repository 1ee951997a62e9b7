package domain

import "fmt"

// SearchStatus tracks where a record is in the enrichment lifecycle.
//
// Transitions:
//
//	pending -> searching -> found | not_found
//	found | not_found -> searching (retry)
//	searching -> pending (rollback after an unexpected failure)
type SearchStatus string

const (
	StatusPending   SearchStatus = "pending"
	StatusSearching SearchStatus = "searching"
	StatusFound     SearchStatus = "found"
	StatusNotFound  SearchStatus = "not_found"
)

// Valid reports whether s is one of the four recognized statuses.
func (s SearchStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSearching, StatusFound, StatusNotFound:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle transition.
func (s SearchStatus) CanTransition(next SearchStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusSearching
	case StatusSearching:
		// Rollback to pending is allowed when enrichment fails unexpectedly.
		return next == StatusFound || next == StatusNotFound || next == StatusPending
	case StatusFound, StatusNotFound:
		return next == StatusSearching
	}
	return false
}

// ParseSearchStatus converts a string into a SearchStatus, rejecting
// anything outside the four variants.
func ParseSearchStatus(s string) (SearchStatus, error) {
	st := SearchStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid search status %q", s)
	}
	return st, nil
}
