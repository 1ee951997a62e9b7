// Package store defines the persistence interface for the Shelfline catalog.
package store

import (
	"context"
	"errors"
	"iter"

	"github.com/shelfline/shelfline-server/internal/domain"
)

// ErrBookNotFound is returned when a record lookup matches nothing.
var ErrBookNotFound = errors.New("book not found")

// BookFilter narrows a catalog listing. Zero values mean "no filter".
type BookFilter struct {
	Search  string              // substring across title, author, isbn
	Genre   string              // case-insensitive exact
	Shelf   int                 // exact slot
	Author  string              // substring
	Status  domain.SearchStatus // exact
	Barcode string              // substring

	Skip  int
	Limit int // capped at MaxListLimit

	// OrderByShelf sorts by shelf slot instead of title. Used by export.
	OrderByShelf bool
}

// MaxListLimit caps a single page of catalog results.
const MaxListLimit = 500

// DefaultListLimit applies when the caller does not specify a limit.
const DefaultListLimit = 100

// Normalize clamps pagination values into their allowed ranges.
func (f *BookFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
}

// DuplicateQuery describes the identity fields checked before an insert.
// A record is a duplicate when isbn matches, OR barcode matches, OR the
// case-insensitive title+author pair matches.
type DuplicateQuery struct {
	ISBN    string
	Barcode string
	Title   string
	Author  string
}

// Stats aggregates catalog counts.
type Stats struct {
	TotalBooks   int            `json:"total_books"`
	TotalGenres  int            `json:"total_genres"`
	TotalShelves int            `json:"total_shelves"`
	TotalAuthors int            `json:"total_authors"`
	Genres       []string       `json:"genres"`
	Shelves      []int          `json:"shelves"`
	ByShelf      map[int]int    `json:"by_shelf"`
	ByStatus     map[string]int `json:"by_status"`
}

// Store is the catalog persistence contract.
type Store interface {
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByBarcode(ctx context.Context, barcode string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	ListBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error)
	StreamBooks(ctx context.Context, filter BookFilter) iter.Seq2[*domain.Book, error]
	ListBookIDsByStatus(ctx context.Context, status domain.SearchStatus) ([]string, error)

	HasDuplicate(ctx context.Context, q DuplicateQuery) (bool, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// SearchIndexer keeps the full-text index in sync with store mutations.
// Index updates must not block or fail store operations.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is a no-op implementation for tests and the CLI.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
