package importer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/enrich"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/metadata"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

// emptySearcher simulates no network access: always zero candidates.
type emptySearcher struct{}

func (emptySearcher) Search(context.Context, string, string, int) ([]metadata.Candidate, error) {
	return nil, nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestImporter(t *testing.T, st store.Store) *Importer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	o := enrich.NewOrchestrator(st, emptySearcher{}, logger, enrich.Options{})
	return New(st, o, logger, nil)
}

const validCSV = `Title,Author,ISBN,Barcode,Shelf,Genre
The Hobbit,J.R.R. Tolkien,9780261102217,BC001,1,Fantasy
Dune,Frank Herbert,,BC002,2,
1984,George Orwell,9780451524935,,3,Fiction
The Martian,Andy Weir,,,4,Science
Gone Girl,Gillian Flynn,,,5,Mystery
`

func TestImport_ValidRows(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	summary, err := imp.Import(context.Background(), "books.csv", strings.NewReader(validCSV), false)
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 5, summary.BooksProcessed)
	assert.Equal(t, 0, summary.DuplicatesFound)
	assert.Equal(t, 0, summary.AutoEnhanced)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, "Successfully processed 5 books", summary.Message)
	assert.NotEmpty(t, summary.RunID)

	books, err := st.ListBooks(context.Background(), store.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 5)
	for _, b := range books {
		assert.Equal(t, domain.StatusPending, b.SearchStatus)
		assert.True(t, strings.HasPrefix(b.ID, "book-"))
	}
}

func TestImport_MissingRequiredColumn(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	_, err := imp.Import(context.Background(), "books.csv",
		strings.NewReader("Title,ISBN\nThe Hobbit,123\n"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "author")
}

func TestImport_UnsupportedExtension(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	_, err := imp.Import(context.Background(), "books.pdf", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedMedia)
}

func TestImport_RowErrorsAreIsolated(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	// Row 3 (1-indexed + header) is missing a title, row 4 has a bad shelf.
	data := "Title,Author,Shelf\n" +
		"The Hobbit,J.R.R. Tolkien,1\n" +
		",George Orwell,2\n" +
		"Dune,Frank Herbert,999\n"

	summary, err := imp.Import(context.Background(), "books.csv", strings.NewReader(data), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BooksProcessed)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Error, "title and/or author")
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Contains(t, summary.Errors[1].Error, "shelf")
}

func TestImport_NanLiteralTreatedAsAbsent(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	data := "Title,Author,ISBN\nThe Hobbit,J.R.R. Tolkien,nan\n"
	summary, err := imp.Import(context.Background(), "books.csv", strings.NewReader(data), false)
	require.NoError(t, err)
	require.Equal(t, 1, summary.BooksProcessed)

	books, err := st.ListBooks(context.Background(), store.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Empty(t, books[0].ISBN)
}

func TestImport_UnrecognizedColumnsIgnored(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	data := "Title,Author,Publisher\nThe Hobbit,J.R.R. Tolkien,Allen & Unwin\n"
	summary, err := imp.Import(context.Background(), "books.csv", strings.NewReader(data), false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.BooksProcessed)
	assert.Empty(t, summary.Errors)
}

func TestUnrecognizedColumns(t *testing.T) {
	extra := unrecognizedColumns([]string{"Title", "Author", " ISBN ", "Publisher", "", "Pages"})
	assert.Equal(t, []string{"publisher", "pages"}, extra)

	assert.Nil(t, unrecognizedColumns([]string{"title", "author", "shelf"}))
}

func TestImport_DuplicatesSkipped(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, st.CreateBook(ctx, &domain.Book{
		ID:           "book-existing",
		CreatedAt:    now,
		UpdatedAt:    now,
		Title:        "The Hobbit",
		Author:       "J.R.R. Tolkien",
		ISBN:         "9780261102217",
		SearchStatus: domain.StatusPending,
	}))

	// First row duplicates by ISBN, second by ci title+author, third is new.
	data := "Title,Author,ISBN\n" +
		"Some Other Title,Someone Else,9780261102217\n" +
		"the hobbit,j.r.r. tolkien,\n" +
		"Dune,Frank Herbert,\n"

	summary, err := imp.Import(ctx, "books.csv", strings.NewReader(data), false)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BooksProcessed)
	assert.Equal(t, 2, summary.DuplicatesFound)
	require.Len(t, summary.Errors, 2)
	assert.Contains(t, summary.Errors[0].Error, "Duplicate book found")
}

func TestImport_AutoEnhanceWithoutNetwork(t *testing.T) {
	st := newTestStore(t)
	imp := newTestImporter(t, st)

	summary, err := imp.Import(context.Background(), "books.csv", strings.NewReader(validCSV), true)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.BooksProcessed)
	assert.Equal(t, 0, summary.AutoEnhanced)

	// Every created record went through enrichment and came back a miss.
	books, err := st.ListBooks(context.Background(), store.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 5)
	for _, b := range books {
		assert.Equal(t, domain.StatusNotFound, b.SearchStatus)
	}
}
