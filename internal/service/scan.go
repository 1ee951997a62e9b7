package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/enrich"
	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/store"
)

// ScanService handles barcode-scan driven shelf assignment. Scanning is
// how library staff shelve a cart of books: scan the barcode, key the
// slot, move on.
type ScanService struct {
	store        store.Store
	orchestrator *enrich.Orchestrator
	logger       *slog.Logger
}

// NewScanService creates a new scan service.
func NewScanService(st store.Store, orchestrator *enrich.Orchestrator, logger *slog.Logger) *ScanService {
	return &ScanService{
		store:        st,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// ScanResult reports a scan-assign operation.
type ScanResult struct {
	Book          *domain.Book `json:"book"`
	ShelfAssigned int          `json:"shelf_assigned"`
	AutoEnhanced  bool         `json:"auto_enhanced"`
}

// ScanAssignShelf looks up a record by barcode, assigns it to the given
// shelf slot, and opportunistically enriches it when it is still
// pending. Enrichment problems never fail the shelf assignment.
func (s *ScanService) ScanAssignShelf(ctx context.Context, barcode string, shelf int) (*ScanResult, error) {
	if barcode == "" {
		return nil, domainerrors.Validation("barcode must not be empty")
	}
	if !domain.ValidShelfSlot(shelf) {
		return nil, domainerrors.Validationf("shelf must be between 1 and %d", domain.MaxShelfSlot)
	}

	book, err := s.store.GetBookByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("no book with barcode %s", barcode)
		}
		return nil, err
	}

	book.Shelf = shelf
	book.Touch()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("assign shelf: %w", err)
	}

	result := &ScanResult{Book: book, ShelfAssigned: shelf}

	if book.SearchStatus == domain.StatusPending && s.orchestrator != nil {
		enriched, err := s.orchestrator.EnrichBook(ctx, book.ID)
		if err != nil {
			s.logger.Warn("opportunistic enrichment failed",
				"book_id", book.ID,
				"error", err,
			)
		} else {
			result.Book = enriched
			result.AutoEnhanced = enriched.SearchStatus == domain.StatusFound
		}
	}

	s.logger.Info("scan assigned shelf",
		"book_id", result.Book.ID,
		"barcode", barcode,
		"shelf", shelf,
		"auto_enhanced", result.AutoEnhanced,
	)
	return result, nil
}
