package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, author, isbn, barcode, shelf,
	genre, ar_level, lexile, image_url, description, page_count, categories,
	maturity_rating, search_status`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt      string
		updatedAt      string
		isbn           sql.NullString
		barcode        sql.NullString
		shelf          sql.NullInt64
		genre          sql.NullString
		arLevel        sql.NullString
		lexile         sql.NullString
		imageURL       sql.NullString
		description    sql.NullString
		categories     sql.NullString
		maturityRating sql.NullString
		status         string
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.Author,
		&isbn,
		&barcode,
		&shelf,
		&genre,
		&arLevel,
		&lexile,
		&imageURL,
		&description,
		&b.PageCount,
		&categories,
		&maturityRating,
		&status,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if isbn.Valid {
		b.ISBN = isbn.String
	}
	if barcode.Valid {
		b.Barcode = barcode.String
	}
	if shelf.Valid {
		b.Shelf = int(shelf.Int64)
	}
	if genre.Valid {
		b.Genre = genre.String
	}
	if arLevel.Valid {
		b.ARLevel = arLevel.String
	}
	if lexile.Valid {
		b.Lexile = lexile.String
	}
	if imageURL.Valid {
		b.ImageURL = imageURL.String
	}
	if description.Valid {
		b.Description = description.String
	}
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &b.Categories); err != nil {
			return nil, fmt.Errorf("parse categories for %s: %w", b.ID, err)
		}
	}
	if maturityRating.Valid {
		b.MaturityRating = maturityRating.String
	}

	b.SearchStatus, err = domain.ParseSearchStatus(status)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// bookArgs builds the insert/update argument list matching bookColumns
// minus the id.
func bookArgs(b *domain.Book) ([]any, error) {
	var categories any
	if len(b.Categories) > 0 {
		raw, err := json.Marshal(b.Categories)
		if err != nil {
			return nil, fmt.Errorf("encode categories: %w", err)
		}
		categories = string(raw)
	}

	return []any{
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		b.Title,
		b.Author,
		nullable(b.ISBN),
		nullable(b.Barcode),
		nullableInt(b.Shelf),
		nullable(b.Genre),
		nullable(b.ARLevel),
		nullable(b.Lexile),
		nullable(b.ImageURL),
		nullable(b.Description),
		b.PageCount,
		categories,
		nullable(b.MaturityRating),
		string(b.SearchStatus),
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// CreateBook inserts a new record.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	args, err := bookArgs(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append([]any{b.ID}, args...)...)
	if err != nil {
		return fmt.Errorf("insert book %s: %w", b.ID, err)
	}

	s.indexBook(ctx, b)
	return nil
}

// GetBook fetches a record by id.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return b, nil
}

// GetBookByBarcode fetches a record by exact barcode.
func (s *Store) GetBookByBarcode(ctx context.Context, barcode string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE barcode = ?`, barcode)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book by barcode %s: %w", barcode, err)
	}
	return b, nil
}

// UpdateBook persists all fields of an existing record.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	args, err := bookArgs(b)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET
			created_at = ?, updated_at = ?, title = ?, author = ?, isbn = ?,
			barcode = ?, shelf = ?, genre = ?, ar_level = ?, lexile = ?,
			image_url = ?, description = ?, page_count = ?, categories = ?,
			maturity_rating = ?, search_status = ?
		 WHERE id = ?`,
		append(args, b.ID)...)
	if err != nil {
		return fmt.Errorf("update book %s: %w", b.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %s: %w", b.ID, err)
	}
	if n == 0 {
		return store.ErrBookNotFound
	}

	s.indexBook(ctx, b)
	return nil
}

// DeleteBook removes a record by id.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrBookNotFound
	}

	if err := s.searchIndexer.DeleteBook(ctx, id); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", id, "error", err)
	}
	return nil
}

// buildFilter translates a BookFilter into a WHERE clause and arguments.
func buildFilter(f store.BookFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		conds = append(conds,
			`(title LIKE ? COLLATE NOCASE OR author LIKE ? COLLATE NOCASE OR isbn LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	if f.Genre != "" {
		conds = append(conds, `genre = ? COLLATE NOCASE`)
		args = append(args, f.Genre)
	}
	if f.Shelf != 0 {
		conds = append(conds, `shelf = ?`)
		args = append(args, f.Shelf)
	}
	if f.Author != "" {
		conds = append(conds, `author LIKE ? COLLATE NOCASE`)
		args = append(args, "%"+f.Author+"%")
	}
	if f.Status != "" {
		conds = append(conds, `search_status = ?`)
		args = append(args, string(f.Status))
	}
	if f.Barcode != "" {
		conds = append(conds, `barcode LIKE ?`)
		args = append(args, "%"+f.Barcode+"%")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(f store.BookFilter) string {
	if f.OrderByShelf {
		return ` ORDER BY shelf IS NULL, shelf, title COLLATE NOCASE`
	}
	return ` ORDER BY title COLLATE NOCASE`
}

// ListBooks returns records matching the filter, paginated and sorted
// by title (or shelf when exporting).
func (s *Store) ListBooks(ctx context.Context, f store.BookFilter) ([]*domain.Book, error) {
	f.Normalize()
	where, args := buildFilter(f)

	query := `SELECT ` + bookColumns + ` FROM books` + where + orderClause(f) +
		` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Skip)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// StreamBooks returns an iterator over all records matching the filter,
// without pagination. Used by export and index rebuilds.
func (s *Store) StreamBooks(ctx context.Context, f store.BookFilter) iter.Seq2[*domain.Book, error] {
	return func(yield func(*domain.Book, error) bool) {
		where, args := buildFilter(f)
		query := `SELECT ` + bookColumns + ` FROM books` + where + orderClause(f)

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}

			b, err := scanBook(rows)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(b, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// ListBookIDsByStatus returns the ids of all records in the given
// enrichment status, ordered by title for predictable batch runs.
func (s *Store) ListBookIDsByStatus(ctx context.Context, status domain.SearchStatus) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM books WHERE search_status = ? ORDER BY title COLLATE NOCASE`,
		string(status))
	if err != nil {
		return nil, fmt.Errorf("list ids by status: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasDuplicate reports whether a record already exists matching the
// query: same isbn, same barcode, or same title+author pair
// (case-insensitive).
func (s *Store) HasDuplicate(ctx context.Context, q store.DuplicateQuery) (bool, error) {
	var conds []string
	var args []any

	if q.ISBN != "" {
		conds = append(conds, `isbn = ?`)
		args = append(args, q.ISBN)
	}
	if q.Barcode != "" {
		conds = append(conds, `barcode = ?`)
		args = append(args, q.Barcode)
	}
	if q.Title != "" && q.Author != "" {
		conds = append(conds, `(title = ? COLLATE NOCASE AND author = ? COLLATE NOCASE)`)
		args = append(args, q.Title, q.Author)
	}

	if len(conds) == 0 {
		return false, nil
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM books WHERE `+strings.Join(conds, " OR ")+` LIMIT 1`,
		args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check duplicates: %w", err)
	}
	return true, nil
}

// indexBook forwards a record to the search indexer. Failures are
// logged, never propagated: search lags rather than blocks writes.
func (s *Store) indexBook(ctx context.Context, b *domain.Book) {
	if err := s.searchIndexer.IndexBook(ctx, b); err != nil {
		s.logger.Warn("failed to index book", "book_id", b.ID, "error", err)
	}
}
