package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/enrich"
	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/importer"
	"github.com/shelfline/shelfline-server/internal/metadata"
	"github.com/shelfline/shelfline-server/internal/search"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
	"github.com/shelfline/shelfline-server/internal/validation"
)

// matchSearcher returns a candidate mirroring the query, so every
// enrichment attempt succeeds.
type matchSearcher struct{}

func (matchSearcher) Search(_ context.Context, title, author string, _ int) ([]metadata.Candidate, error) {
	return []metadata.Candidate{{
		Title:       title,
		Authors:     []string{author},
		Description: "A matched description.",
		Language:    "en",
	}}, nil
}

// missSearcher never finds anything.
type missSearcher struct{}

func (missSearcher) Search(context.Context, string, string, int) ([]metadata.Candidate, error) {
	return nil, nil
}

func setupTestServer(t *testing.T, searcher metadata.Searcher) *Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewCatalogIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	st.SetSearchIndexer(index)

	orchestrator := enrich.NewOrchestrator(st, searcher, logger, enrich.Options{})
	bookService := service.NewBookService(st, validation.New(), logger)
	scanService := service.NewScanService(st, orchestrator, logger)
	imp := importer.New(st, orchestrator, logger, nil)

	return NewServer(st, bookService, scanService, orchestrator, imp, index, logger)
}

func createTestBook(t *testing.T, server *Server, title, author string, mutate func(*domain.Book)) *domain.Book {
	t.Helper()

	bookID, err := id.Generate("book")
	require.NoError(t, err)

	now := time.Now()
	book := &domain.Book{
		ID:           bookID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Title:        title,
		Author:       author,
		SearchStatus: domain.StatusPending,
	}
	if mutate != nil {
		mutate(book)
	}

	require.NoError(t, server.store.CreateBook(context.Background(), book))
	return book
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestHandleCreateBook(t *testing.T) {
	server := setupTestServer(t, missSearcher{})

	w := doJSON(t, server, http.MethodPost, "/api/v1/books", service.CreateBookInput{
		Title:  "The Hobbit",
		Author: "J.R.R. Tolkien",
		Shelf:  3,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.True(t, envelope.Success)

	// Missing author.
	w = doJSON(t, server, http.MethodPost, "/api/v1/books", service.CreateBookInput{Title: "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate title+author.
	w = doJSON(t, server, http.MethodPost, "/api/v1/books", service.CreateBookInput{
		Title:  "the hobbit",
		Author: "J.R.R. TOLKIEN",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleListBooks_Filters(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	createTestBook(t, server, "The Hobbit", "J.R.R. Tolkien", func(b *domain.Book) {
		b.Genre = "Fantasy"
		b.Shelf = 3
	})
	createTestBook(t, server, "The Martian", "Andy Weir", func(b *domain.Book) {
		b.Genre = "Science"
		b.Shelf = 7
	})

	w := doJSON(t, server, http.MethodGet, "/api/v1/books?genre=fantasy", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []domain.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "The Hobbit", envelope.Data[0].Title)

	// Invalid shelf parameter.
	w = doJSON(t, server, http.MethodGet, "/api/v1/books?shelf=bottom", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Invalid status parameter.
	w = doJSON(t, server, http.MethodGet, "/api/v1/books?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetUpdateDeleteBook(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	book := createTestBook(t, server, "Dune", "Frank Herbert", nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, server, http.MethodGet, "/api/v1/books/book-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	newShelf := 12
	w = doJSON(t, server, http.MethodPatch, "/api/v1/books/"+book.ID, service.UpdateBookInput{
		Shelf: &newShelf,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data domain.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 12, envelope.Data.Shelf)

	w = doJSON(t, server, http.MethodDelete, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, server, http.MethodDelete, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetStats(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	createTestBook(t, server, "One", "A", func(b *domain.Book) { b.Shelf = 1; b.Genre = "Fiction" })
	createTestBook(t, server, "Two", "B", func(b *domain.Book) { b.Shelf = 2; b.Genre = "Science" })

	w := doJSON(t, server, http.MethodGet, "/api/v1/books/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			TotalBooks  int `json:"total_books"`
			TotalGenres int `json:"total_genres"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.TotalBooks)
	assert.Equal(t, 2, envelope.Data.TotalGenres)
}

func uploadCSV(t *testing.T, server *Server, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestHandleUploadBooks(t *testing.T) {
	server := setupTestServer(t, missSearcher{})

	csv := "Title,Author\nThe Hobbit,J.R.R. Tolkien\nDune,Frank Herbert\n"
	w := uploadCSV(t, server, "/api/v1/books/upload", "books.csv", csv)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data importer.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.BooksProcessed)
	assert.Equal(t, "Successfully processed 2 books", envelope.Data.Message)

	// Unsupported extension.
	w = uploadCSV(t, server, "/api/v1/books/upload", "books.pdf", "junk")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	// Missing required column.
	w = uploadCSV(t, server, "/api/v1/books/upload", "books.csv", "Title\nAlone\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadBooks_AutoEnhance(t *testing.T) {
	server := setupTestServer(t, matchSearcher{})

	csv := "Title,Author\nThe Hobbit,J.R.R. Tolkien\n"
	w := uploadCSV(t, server, "/api/v1/books/upload?auto_enhance=true", "books.csv", csv)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data importer.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.BooksProcessed)
	assert.Equal(t, 1, envelope.Data.AutoEnhanced)
}

func TestHandleExportBooks(t *testing.T) {
	server := setupTestServer(t, missSearcher{})

	// Empty catalog: export is an error, not an empty file.
	w := doJSON(t, server, http.MethodGet, "/api/v1/books/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	createTestBook(t, server, "The Hobbit", "J.R.R. Tolkien", func(b *domain.Book) { b.Shelf = 3 })

	w = doJSON(t, server, http.MethodGet, "/api/v1/books/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "library_books_")
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}

func TestHandleEnrichBook(t *testing.T) {
	server := setupTestServer(t, matchSearcher{})
	book := createTestBook(t, server, "The Hobbit", "J.R.R. Tolkien", nil)

	w := doJSON(t, server, http.MethodPost, "/api/v1/books/"+book.ID+"/enrich", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data domain.Book `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, domain.StatusFound, envelope.Data.SearchStatus)
	assert.Equal(t, "A matched description.", envelope.Data.Description)

	w = doJSON(t, server, http.MethodPost, "/api/v1/books/book-missing/enrich", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleEnrichBatch(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	createTestBook(t, server, "One", "A", nil)
	createTestBook(t, server, "Two", "B", nil)

	w := doJSON(t, server, http.MethodPost, "/api/v1/books/enrich-batch", EnrichBatchRequest{
		AllPending: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data enrich.BatchSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Total)
	assert.Equal(t, 2, envelope.Data.NotFound)

	// Neither ids nor all_pending.
	w = doJSON(t, server, http.MethodPost, "/api/v1/books/enrich-batch", EnrichBatchRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAssignShelfBulk(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	book := createTestBook(t, server, "One", "A", nil)

	w := doJSON(t, server, http.MethodPost, "/api/v1/books/shelf", AssignShelfRequest{
		BookIDs: []string{book.ID},
		Shelf:   10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.BulkShelfResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Assigned)

	w = doJSON(t, server, http.MethodPost, "/api/v1/books/shelf", AssignShelfRequest{
		BookIDs: []string{book.ID},
		Shelf:   500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScanAssignShelf(t *testing.T) {
	server := setupTestServer(t, matchSearcher{})
	createTestBook(t, server, "The Hobbit", "J.R.R. Tolkien", func(b *domain.Book) {
		b.Barcode = "HOB001"
	})

	w := doJSON(t, server, http.MethodPost, "/api/v1/books/scan-assign-shelf", ScanRequest{
		Barcode: "HOB001",
		Shelf:   99,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.ScanResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 99, envelope.Data.ShelfAssigned)
	assert.True(t, envelope.Data.AutoEnhanced)

	w = doJSON(t, server, http.MethodPost, "/api/v1/books/scan-assign-shelf", ScanRequest{
		Barcode: "NOPE",
		Shelf:   5,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSearch(t *testing.T) {
	server := setupTestServer(t, missSearcher{})
	createTestBook(t, server, "The Hobbit", "J.R.R. Tolkien", nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/search?q=hobbit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data search.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, uint64(1), envelope.Data.Total)
}

func TestHandleHealthCheck(t *testing.T) {
	server := setupTestServer(t, missSearcher{})

	w := doJSON(t, server, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Contains(t, envelope.Data.Components, "database")
	assert.Contains(t, envelope.Data.Components, "search")
}
