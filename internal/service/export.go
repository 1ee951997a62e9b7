package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/spreadsheet"
	"github.com/shelfline/shelfline-server/internal/store"
)

const exportSheetName = "Books"

var exportHeader = []string{
	"Title", "Author", "ISBN", "Barcode", "Shelf", "Genre",
	"AR Level", "Lexile", "Description", "Image URL", "Page Count",
	"Categories", "Maturity Rating", "Search Status",
	"Created At", "Updated At",
}

// ExportBooks writes the filtered record set as a styled workbook,
// ordered by shelf slot. An empty result set is an error, not an empty
// file. Returns the suggested download filename.
func (s *BookService) ExportBooks(ctx context.Context, w io.Writer, filter store.BookFilter) (string, error) {
	filter.OrderByShelf = true

	var rows [][]string
	for book, err := range s.store.StreamBooks(ctx, filter) {
		if err != nil {
			return "", fmt.Errorf("stream books: %w", err)
		}
		rows = append(rows, exportRow(book))
	}

	if len(rows) == 0 {
		return "", domainerrors.NotFound("no books found to export")
	}

	filename := fmt.Sprintf("library_books_%s.xlsx", time.Now().Format("20060102_150405"))
	if err := spreadsheet.WriteXLSX(w, exportSheetName, exportHeader, rows); err != nil {
		return "", fmt.Errorf("build workbook: %w", err)
	}

	s.logger.Info("exported books", "count", len(rows), "filename", filename)
	return filename, nil
}

func exportRow(book *domain.Book) []string {
	shelf := ""
	if book.Shelf > 0 {
		shelf = strconv.Itoa(book.Shelf)
	}
	pages := ""
	if book.PageCount > 0 {
		pages = strconv.Itoa(book.PageCount)
	}
	return []string{
		book.Title,
		book.Author,
		book.ISBN,
		book.Barcode,
		shelf,
		book.Genre,
		book.ARLevel,
		book.Lexile,
		book.Description,
		book.ImageURL,
		pages,
		strings.Join(book.Categories, ", "),
		book.MaturityRating,
		string(book.SearchStatus),
		book.CreatedAt.Format("2006-01-02 15:04:05"),
		book.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
