// Package spreadsheet reads and writes the tabular files used by bulk
// import and export. It supports .xlsx workbooks and .csv files behind
// one codec surface.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
)

// Sheet is a parsed tabular file: one header row plus data rows.
// Cell values are raw strings; interpretation is the caller's job.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, matched
// case/whitespace-insensitively, or -1 when absent.
func (s *Sheet) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range s.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Cell returns row[col] or "" when the row is short. Spreadsheet rows
// routinely omit trailing empty cells.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// SupportedExtension reports whether the filename has a readable
// spreadsheet extension.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// Read parses r according to the filename's extension.
func Read(filename string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, domainerrors.UnsupportedMedia(
			fmt.Sprintf("unsupported file type %q, expected .xlsx or .csv", filepath.Ext(filename)))
	}
}

func readCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit trailing cells

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domainerrors.Validation("malformed csv file").WithCause(err)
	}
	if len(records) == 0 {
		return nil, domainerrors.Validation("file contains no rows")
	}

	return &Sheet{Header: records[0], Rows: records[1:]}, nil
}

func readXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domainerrors.Validation("malformed xlsx file").WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domainerrors.Validation("workbook contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domainerrors.Validation("file contains no rows")
	}

	return &Sheet{Header: rows[0], Rows: rows[1:]}, nil
}
