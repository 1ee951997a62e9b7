// Package importer implements the bulk spreadsheet import pipeline:
// structural validation, per-row cleaning, duplicate detection, record
// creation, and optional auto-enrichment.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/enrich"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/spreadsheet"
	"github.com/shelfline/shelfline-server/internal/store"
)

// requiredColumns must all be present or the whole file is rejected
// before any row is processed.
var requiredColumns = []string{"title", "author"}

// optionalColumns are recognized when present; anything else in the
// header is ignored with a warning so typos surface in the logs.
var optionalColumns = []string{"isbn", "barcode", "shelf", "genre"}

// RowError describes why one spreadsheet row was skipped. Row numbers
// are 1-indexed spreadsheet rows, so the first data row is 2.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Summary is the structured result of an import run. A single bad row
// never aborts the run; it is isolated here instead.
type Summary struct {
	RunID           string     `json:"run_id"`
	Success         bool       `json:"success"`
	Message         string     `json:"message"`
	BooksProcessed  int        `json:"books_processed"`
	DuplicatesFound int        `json:"duplicates_found"`
	AutoEnhanced    int        `json:"auto_enhanced"`
	Errors          []RowError `json:"errors"`
}

// Importer runs spreadsheet files through the import pipeline.
type Importer struct {
	store        store.Store
	orchestrator *enrich.Orchestrator
	logger       *slog.Logger

	// limiter paces enrichment during auto-enhanced imports.
	limiter *rate.Limiter
}

// New creates an Importer. The limiter may be nil to disable pacing,
// which tests use to avoid real delays.
func New(st store.Store, orchestrator *enrich.Orchestrator, logger *slog.Logger, limiter *rate.Limiter) *Importer {
	return &Importer{
		store:        st,
		orchestrator: orchestrator,
		logger:       logger,
		limiter:      limiter,
	}
}

// Import parses the uploaded file and creates a record per valid row.
// Duplicate rows are counted and skipped, never overwritten. When
// autoEnhance is set, each created record is immediately run through
// the enrichment orchestrator with paced external calls.
func (imp *Importer) Import(ctx context.Context, filename string, r io.Reader, autoEnhance bool) (*Summary, error) {
	sheet, err := spreadsheet.Read(filename, r)
	if err != nil {
		return nil, err
	}

	if err := validateColumns(sheet); err != nil {
		return nil, err
	}
	if extra := unrecognizedColumns(sheet.Header); len(extra) > 0 {
		imp.logger.Warn("ignoring unrecognized columns", "file", filename, "columns", extra)
	}

	summary := &Summary{
		RunID:   uuid.NewString(),
		Success: true,
		Errors:  []RowError{},
	}

	titleCol := sheet.ColumnIndex("title")
	authorCol := sheet.ColumnIndex("author")
	isbnCol := sheet.ColumnIndex("isbn")
	barcodeCol := sheet.ColumnIndex("barcode")
	shelfCol := sheet.ColumnIndex("shelf")
	genreCol := sheet.ColumnIndex("genre")

	imp.logger.Info("starting import",
		"run_id", summary.RunID,
		"file", filename,
		"rows", len(sheet.Rows),
		"auto_enhance", autoEnhance,
	)

	for i, row := range sheet.Rows {
		// Spreadsheet row number: 1-indexed plus the header row.
		rowNum := i + 2

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		title := cleanCell(spreadsheet.Cell(row, titleCol))
		author := cleanCell(spreadsheet.Cell(row, authorCol))
		if title == "" || author == "" {
			summary.Errors = append(summary.Errors, RowError{
				Row:   rowNum,
				Error: "Missing required fields: title and/or author",
			})
			continue
		}

		book := &domain.Book{
			Title:        title,
			Author:       author,
			ISBN:         cleanCell(spreadsheet.Cell(row, isbnCol)),
			Barcode:      cleanCell(spreadsheet.Cell(row, barcodeCol)),
			Genre:        cleanCell(spreadsheet.Cell(row, genreCol)),
			SearchStatus: domain.StatusPending,
		}

		if shelfRaw := cleanCell(spreadsheet.Cell(row, shelfCol)); shelfRaw != "" {
			shelf, err := parseShelf(shelfRaw)
			if err != nil {
				summary.Errors = append(summary.Errors, RowError{Row: rowNum, Error: err.Error()})
				continue
			}
			book.Shelf = shelf
		}

		dup, err := imp.store.HasDuplicate(ctx, store.DuplicateQuery{
			ISBN:    book.ISBN,
			Barcode: book.Barcode,
			Title:   book.Title,
			Author:  book.Author,
		})
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		if dup {
			summary.DuplicatesFound++
			summary.Errors = append(summary.Errors, RowError{
				Row:   rowNum,
				Error: fmt.Sprintf("Duplicate book found: %s by %s", book.Title, book.Author),
			})
			continue
		}

		bookID, err := id.Generate("book")
		if err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		book.ID = bookID
		now := time.Now()
		book.CreatedAt = now
		book.UpdatedAt = now

		if err := imp.store.CreateBook(ctx, book); err != nil {
			summary.Errors = append(summary.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		summary.BooksProcessed++

		if autoEnhance {
			imp.autoEnhance(ctx, summary, book)
		}
	}

	summary.Message = fmt.Sprintf("Successfully processed %d books", summary.BooksProcessed)
	imp.logger.Info("import finished",
		"run_id", summary.RunID,
		"processed", summary.BooksProcessed,
		"duplicates", summary.DuplicatesFound,
		"auto_enhanced", summary.AutoEnhanced,
		"row_errors", len(summary.Errors),
	)
	return summary, nil
}

// autoEnhance runs one freshly created record through enrichment.
// Failures are logged and skipped so the import keeps going.
func (imp *Importer) autoEnhance(ctx context.Context, summary *Summary, book *domain.Book) {
	if imp.orchestrator == nil {
		return
	}
	if imp.limiter != nil {
		if err := imp.limiter.Wait(ctx); err != nil {
			return
		}
	}

	enriched, err := imp.orchestrator.EnrichBook(ctx, book.ID)
	if err != nil {
		imp.logger.Warn("auto-enhance failed", "book_id", book.ID, "error", err)
		return
	}
	if enriched.SearchStatus == domain.StatusFound {
		summary.AutoEnhanced++
	}
}

func validateColumns(sheet *spreadsheet.Sheet) error {
	var missing []string
	for _, col := range requiredColumns {
		if sheet.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return domainerrors.Validationf("Missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// unrecognizedColumns returns header names that are neither required
// nor optional. Blank header cells are skipped.
func unrecognizedColumns(header []string) []string {
	known := make(map[string]bool, len(requiredColumns)+len(optionalColumns))
	for _, col := range requiredColumns {
		known[col] = true
	}
	for _, col := range optionalColumns {
		known[col] = true
	}

	var extra []string
	for _, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" || known[name] {
			continue
		}
		extra = append(extra, name)
	}
	return extra
}

// cleanCell trims the value and treats the empty string and the "nan"
// literal (pandas leakage in real library spreadsheets) as absent.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

func parseShelf(raw string) (int, error) {
	shelf, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid shelf %q: must be a number between 1 and %d", raw, domain.MaxShelfSlot)
	}
	if !domain.ValidShelfSlot(shelf) {
		return 0, fmt.Errorf("invalid shelf %d: must be between 1 and %d", shelf, domain.MaxShelfSlot)
	}
	return shelf, nil
}
