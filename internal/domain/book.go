// Package domain contains the core business entities for the Shelfline catalog.
package domain

import (
	"strings"
	"time"
)

// MaxShelfSlot is the highest valid shelf slot number.
const MaxShelfSlot = 120

// UnknownAuthor is the sentinel used when a record's author is not known.
// Compared case-insensitively after trimming.
const UnknownAuthor = "unknown"

// Book represents a single catalog record.
type Book struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title  string `json:"title"`
	Author string `json:"author"`

	ISBN    string `json:"isbn,omitempty"`
	Barcode string `json:"barcode,omitempty"`
	Shelf   int    `json:"shelf,omitempty"` // slot 1..MaxShelfSlot, 0 = unassigned

	Genre          string   `json:"genre,omitempty"`
	ARLevel        string   `json:"ar_level,omitempty"`
	Lexile         string   `json:"lexile,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Description    string   `json:"description,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	MaturityRating string   `json:"maturity_rating,omitempty"`

	SearchStatus SearchStatus `json:"search_status"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the record changes.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// HasKnownAuthor reports whether the record carries a usable author,
// i.e. non-empty and not the unknown sentinel.
func (b *Book) HasKnownAuthor() bool {
	a := strings.TrimSpace(b.Author)
	return a != "" && !strings.EqualFold(a, UnknownAuthor)
}

// ValidShelfSlot reports whether n is a usable shelf slot number.
func ValidShelfSlot(n int) bool {
	return n >= 1 && n <= MaxShelfSlot
}
