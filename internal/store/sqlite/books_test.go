package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(id, title, author string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:           id,
		CreatedAt:    now,
		UpdatedAt:    now,
		Title:        title,
		Author:       author,
		SearchStatus: domain.StatusPending,
	}
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("book-1", "The Hobbit", "J.R.R. Tolkien")
	book.ISBN = "978-0-261-10295-4"
	book.Barcode = "BC0001"
	book.Shelf = 12
	book.Genre = "Fantasy"
	book.ARLevel = "5.0-8.0"
	book.Lexile = "700L-1000L"
	book.ImageURL = "http://img/hobbit.jpg"
	book.Description = "A children's fantasy novel"
	book.PageCount = 310
	book.Categories = []string{"Juvenile Fiction", "Fantasy"}
	book.MaturityRating = "NOT_MATURE"

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Title != "The Hobbit" || got.Author != "J.R.R. Tolkien" {
		t.Errorf("unexpected title/author: %q / %q", got.Title, got.Author)
	}
	if got.Shelf != 12 {
		t.Errorf("expected shelf 12, got %d", got.Shelf)
	}
	if got.PageCount != 310 {
		t.Errorf("expected 310 pages, got %d", got.PageCount)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "Juvenile Fiction" {
		t.Errorf("unexpected categories: %v", got.Categories)
	}
	if got.SearchStatus != domain.StatusPending {
		t.Errorf("expected pending, got %s", got.SearchStatus)
	}
}

func TestGetBookNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "book-missing")
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestGetBookByBarcode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("book-1", "Dune", "Frank Herbert")
	book.Barcode = "SCAN001"
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetBookByBarcode(ctx, "SCAN001")
	if err != nil {
		t.Fatalf("get by barcode: %v", err)
	}
	if got.ID != "book-1" {
		t.Errorf("expected book-1, got %s", got.ID)
	}

	if _, err := s.GetBookByBarcode(ctx, "NOPE"); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestUpdateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("book-1", "Dune", "Frank Herbert")
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("create: %v", err)
	}

	book.Description = "Spice and sandworms"
	book.SearchStatus = domain.StatusFound
	book.Touch()
	if err := s.UpdateBook(ctx, book); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Spice and sandworms" {
		t.Errorf("description not updated: %q", got.Description)
	}
	if got.SearchStatus != domain.StatusFound {
		t.Errorf("status not updated: %s", got.SearchStatus)
	}

	missing := makeTestBook("book-zzz", "X", "Y")
	if err := s.UpdateBook(ctx, missing); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBook(ctx, makeTestBook("book-1", "Dune", "Frank Herbert")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteBook(ctx, "book-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBook(ctx, "book-1"); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound after delete, got %v", err)
	}
	if err := s.DeleteBook(ctx, "book-1"); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound on double delete, got %v", err)
	}
}

func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	fixtures := []*domain.Book{
		func() *domain.Book {
			b := makeTestBook("book-1", "A Game of Thrones", "George R.R. Martin")
			b.ISBN = "9780553103540"
			b.Genre = "Fantasy"
			b.Shelf = 3
			b.SearchStatus = domain.StatusFound
			return b
		}(),
		func() *domain.Book {
			b := makeTestBook("book-2", "A Clash of Kings", "George R.R. Martin")
			b.Genre = "Fantasy"
			b.Shelf = 3
			return b
		}(),
		func() *domain.Book {
			b := makeTestBook("book-3", "The Martian", "Andy Weir")
			b.Barcode = "BC0003"
			b.Genre = "Science"
			b.Shelf = 7
			b.SearchStatus = domain.StatusNotFound
			return b
		}(),
	}
	for _, b := range fixtures {
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("seed %s: %v", b.ID, err)
		}
	}
}

func TestListBooksFilters(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter store.BookFilter
		want   []string // expected ids in order
	}{
		{"no filter sorts by title", store.BookFilter{}, []string{"book-2", "book-1", "book-3"}},
		{"search title", store.BookFilter{Search: "game"}, []string{"book-1"}},
		{"search matches author", store.BookFilter{Search: "martin"}, []string{"book-2", "book-1"}},
		{"search matches isbn", store.BookFilter{Search: "0553103540"}, []string{"book-1"}},
		{"genre", store.BookFilter{Genre: "fantasy"}, []string{"book-2", "book-1"}},
		{"shelf", store.BookFilter{Shelf: 7}, []string{"book-3"}},
		{"author substring", store.BookFilter{Author: "weir"}, []string{"book-3"}},
		{"status", store.BookFilter{Status: domain.StatusPending}, []string{"book-2"}},
		{"barcode substring", store.BookFilter{Barcode: "0003"}, []string{"book-3"}},
		{"skip and limit", store.BookFilter{Skip: 1, Limit: 1}, []string{"book-1"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			books, err := s.ListBooks(ctx, c.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var ids []string
			for _, b := range books {
				ids = append(ids, b.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(c.want) {
				t.Errorf("got %v, want %v", ids, c.want)
			}
		})
	}
}

func TestStreamBooksOrderByShelf(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	var ids []string
	for b, err := range s.StreamBooks(context.Background(), store.BookFilter{OrderByShelf: true}) {
		if err != nil {
			t.Fatalf("stream: %v", err)
		}
		ids = append(ids, b.ID)
	}
	// Shelf 3 (two books, title order), shelf 7.
	want := []string{"book-2", "book-1", "book-3"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestListBookIDsByStatus(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	ids, err := s.ListBookIDsByStatus(context.Background(), domain.StatusPending)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "book-2" {
		t.Errorf("got %v, want [book-2]", ids)
	}
}

func TestHasDuplicate(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)
	ctx := context.Background()

	cases := []struct {
		name string
		q    store.DuplicateQuery
		want bool
	}{
		{"isbn match", store.DuplicateQuery{ISBN: "9780553103540", Title: "Different", Author: "Someone"}, true},
		{"barcode match", store.DuplicateQuery{Barcode: "BC0003", Title: "Different", Author: "Someone"}, true},
		{"title+author ci match", store.DuplicateQuery{Title: "the martian", Author: "ANDY WEIR"}, true},
		{"title alone no match", store.DuplicateQuery{Title: "The Martian"}, false},
		{"fresh record", store.DuplicateQuery{Title: "Project Hail Mary", Author: "Andy Weir"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := s.HasDuplicate(ctx, c.q)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	stats, err := s.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalBooks != 3 {
		t.Errorf("total books: got %d, want 3", stats.TotalBooks)
	}
	if stats.TotalGenres != 2 {
		t.Errorf("total genres: got %d, want 2", stats.TotalGenres)
	}
	if stats.TotalShelves != 2 {
		t.Errorf("total shelves: got %d, want 2", stats.TotalShelves)
	}
	if stats.TotalAuthors != 2 {
		t.Errorf("total authors: got %d, want 2", stats.TotalAuthors)
	}
	if stats.ByShelf[3] != 2 || stats.ByShelf[7] != 1 {
		t.Errorf("shelf distribution: %v", stats.ByShelf)
	}
	if stats.ByStatus["pending"] != 1 || stats.ByStatus["found"] != 1 || stats.ByStatus["not_found"] != 1 {
		t.Errorf("status distribution: %v", stats.ByStatus)
	}
}
