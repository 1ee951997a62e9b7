package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
)

func TestReadCSV(t *testing.T) {
	data := "Title,Author,ISBN\nThe Hobbit,J.R.R. Tolkien,123\nDune,Frank Herbert\n"

	sheet, err := Read("books.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Title", "Author", "ISBN"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Dune", Cell(sheet.Rows[1], 0))
	// Short row: missing trailing cell reads as empty.
	assert.Equal(t, "", Cell(sheet.Rows[1], 2))
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read("books.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedMedia)

	assert.False(t, SupportedExtension("books.pdf"))
	assert.True(t, SupportedExtension("books.XLSX"))
	assert.True(t, SupportedExtension("books.csv"))
}

func TestReadEmptyCSV(t *testing.T) {
	_, err := Read("books.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestColumnIndex(t *testing.T) {
	sheet := &Sheet{Header: []string{" Title ", "AUTHOR", "isbn"}}

	assert.Equal(t, 0, sheet.ColumnIndex("title"))
	assert.Equal(t, 1, sheet.ColumnIndex("Author"))
	assert.Equal(t, 2, sheet.ColumnIndex("ISBN"))
	assert.Equal(t, -1, sheet.ColumnIndex("barcode"))
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	header := []string{"Title", "Author", "Shelf"}
	rows := [][]string{
		{"The Hobbit", "J.R.R. Tolkien", "12"},
		{"Dune", "Frank Herbert", "3"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Books", header, rows))

	sheet, err := Read("export.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, header, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Dune", Cell(sheet.Rows[1], 0))
	assert.Equal(t, "3", Cell(sheet.Rows[1], 2))
}
