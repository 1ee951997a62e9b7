// Package service provides the business logic layer over the catalog
// store: record CRUD, shelf assignment, export, and statistics.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/id"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/validation"
)

// BookService orchestrates catalog record operations.
type BookService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookInput is a manual record creation request.
type CreateBookInput struct {
	Title       string   `json:"title" validate:"required"`
	Author      string   `json:"author" validate:"required"`
	ISBN        string   `json:"isbn,omitempty"`
	Barcode     string   `json:"barcode,omitempty"`
	Shelf       int      `json:"shelf,omitempty" validate:"omitempty,gte=1,lte=120"`
	Genre       string   `json:"genre,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Description string   `json:"description,omitempty"`
	PageCount   int      `json:"page_count,omitempty" validate:"omitempty,gte=0"`
	Categories  []string `json:"categories,omitempty"`
}

// CreateBook validates the input, rejects duplicates, and persists a new
// record in pending status.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	dup, err := s.store.HasDuplicate(ctx, store.DuplicateQuery{
		ISBN:    strings.TrimSpace(input.ISBN),
		Barcode: strings.TrimSpace(input.Barcode),
		Title:   input.Title,
		Author:  input.Author,
	})
	if err != nil {
		return nil, fmt.Errorf("check duplicates: %w", err)
	}
	if dup {
		return nil, domainerrors.Duplicatef("duplicate book: %s by %s", input.Title, input.Author)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	book := &domain.Book{
		ID:           bookID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Title:        input.Title,
		Author:       input.Author,
		ISBN:         strings.TrimSpace(input.ISBN),
		Barcode:      strings.TrimSpace(input.Barcode),
		Shelf:        input.Shelf,
		Genre:        strings.TrimSpace(input.Genre),
		ImageURL:     input.ImageURL,
		Description:  input.Description,
		PageCount:    input.PageCount,
		Categories:   input.Categories,
		SearchStatus: domain.StatusPending,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("created book", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// GetBook retrieves a single record by id.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}
	return book, nil
}

// UpdateBookInput is a partial update; nil fields are left unchanged.
type UpdateBookInput struct {
	Title       *string   `json:"title,omitempty"`
	Author      *string   `json:"author,omitempty"`
	ISBN        *string   `json:"isbn,omitempty"`
	Barcode     *string   `json:"barcode,omitempty"`
	Shelf       *int      `json:"shelf,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	ARLevel     *string   `json:"ar_level,omitempty"`
	Lexile      *string   `json:"lexile,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	PageCount   *int      `json:"page_count,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
}

// UpdateBook applies a partial update to a record.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, input UpdateBookInput) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domainerrors.Validation("title must not be empty")
		}
		book.Title = title
	}
	if input.Author != nil {
		author := strings.TrimSpace(*input.Author)
		if author == "" {
			return nil, domainerrors.Validation("author must not be empty")
		}
		book.Author = author
	}
	if input.ISBN != nil {
		book.ISBN = strings.TrimSpace(*input.ISBN)
	}
	if input.Barcode != nil {
		book.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.Shelf != nil {
		if *input.Shelf != 0 && !domain.ValidShelfSlot(*input.Shelf) {
			return nil, domainerrors.Validationf("shelf must be between 1 and %d", domain.MaxShelfSlot)
		}
		book.Shelf = *input.Shelf
	}
	if input.Genre != nil {
		book.Genre = strings.TrimSpace(*input.Genre)
	}
	if input.ARLevel != nil {
		book.ARLevel = *input.ARLevel
	}
	if input.Lexile != nil {
		book.Lexile = *input.Lexile
	}
	if input.ImageURL != nil {
		book.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.PageCount != nil {
		if *input.PageCount < 0 {
			return nil, domainerrors.Validation("page_count must not be negative")
		}
		book.PageCount = *input.PageCount
	}
	if input.Categories != nil {
		book.Categories = *input.Categories
	}

	book.Touch()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("updated book", "book_id", book.ID)
	return book, nil
}

// DeleteBook removes a record by id.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFoundf("book %s not found", bookID)
		}
		return err
	}
	s.logger.Info("deleted book", "book_id", bookID)
	return nil
}

// ListBooks returns the filtered, paginated catalog.
func (s *BookService) ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx, filter)
}

// GetStats returns aggregate catalog statistics.
func (s *BookService) GetStats(ctx context.Context) (*store.Stats, error) {
	return s.store.GetStats(ctx)
}

// BulkShelfResult summarizes a bulk shelf assignment.
type BulkShelfResult struct {
	Shelf    int      `json:"shelf"`
	Assigned int      `json:"assigned"`
	Missing  []string `json:"missing,omitempty"`
}

// AssignShelfBulk moves many records onto one shelf slot. Unknown ids
// are reported, not fatal.
func (s *BookService) AssignShelfBulk(ctx context.Context, bookIDs []string, shelf int) (*BulkShelfResult, error) {
	if !domain.ValidShelfSlot(shelf) {
		return nil, domainerrors.Validationf("shelf must be between 1 and %d", domain.MaxShelfSlot)
	}
	if len(bookIDs) == 0 {
		return nil, domainerrors.Validation("book_ids must not be empty")
	}

	result := &BulkShelfResult{Shelf: shelf}
	for _, bookID := range bookIDs {
		book, err := s.store.GetBook(ctx, bookID)
		if err != nil {
			if errors.Is(err, store.ErrBookNotFound) {
				result.Missing = append(result.Missing, bookID)
				continue
			}
			return nil, err
		}
		book.Shelf = shelf
		book.Touch()
		if err := s.store.UpdateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("assign shelf for %s: %w", bookID, err)
		}
		result.Assigned++
	}

	s.logger.Info("bulk shelf assignment",
		"shelf", shelf,
		"assigned", result.Assigned,
		"missing", len(result.Missing),
	)
	return result, nil
}
