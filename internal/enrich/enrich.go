// Package enrich drives book records through the metadata enrichment
// lifecycle: external search, candidate matching, selective merge, and
// status bookkeeping.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/match"
	"github.com/shelfline/shelfline-server/internal/metadata"
	"github.com/shelfline/shelfline-server/internal/store"
)

// DefaultMaxCandidates is how many search results to request per record.
const DefaultMaxCandidates = 5

// Orchestrator runs the enrichment flow for single records and batches.
//
// External failures never propagate to callers: a search or match problem
// degrades to a not_found record. Only store failures surface as errors,
// and those roll the record back to pending rather than leaving it stuck
// in searching.
type Orchestrator struct {
	store         store.Store
	searcher      metadata.Searcher
	logger        *slog.Logger
	maxCandidates int

	// limiter paces batch runs against the external API.
	limiter *rate.Limiter
}

// Options configures an Orchestrator.
type Options struct {
	MaxCandidates int
	// BatchLimiter paces sequential batch enrichment. Nil means no pacing,
	// which tests use to avoid real delays.
	BatchLimiter *rate.Limiter
}

// NewOrchestrator creates an enrichment orchestrator.
func NewOrchestrator(st store.Store, searcher metadata.Searcher, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	return &Orchestrator{
		store:         st,
		searcher:      searcher,
		logger:        logger,
		maxCandidates: opts.MaxCandidates,
		limiter:       opts.BatchLimiter,
	}
}

// EnrichBook runs one record through search, match, and merge.
// The searching status is persisted before the external call so an
// interrupted run is observable. Returns the updated record.
func (o *Orchestrator) EnrichBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := o.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !book.SearchStatus.CanTransition(domain.StatusSearching) {
		return nil, fmt.Errorf("book %s: cannot start enrichment from status %s", bookID, book.SearchStatus)
	}

	book.SearchStatus = domain.StatusSearching
	book.Touch()
	if err := o.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("mark searching: %w", err)
	}

	status, mergeErr := o.searchAndMerge(ctx, book)
	if mergeErr != nil {
		// Unexpected internal failure: roll back so the record is never
		// stranded in searching.
		o.rollback(ctx, book)
		return nil, mergeErr
	}

	book.SearchStatus = status
	book.Touch()
	if err := o.store.UpdateBook(ctx, book); err != nil {
		o.rollback(ctx, book)
		return nil, fmt.Errorf("persist enrichment result: %w", err)
	}

	o.logger.Info("enriched book",
		"book_id", book.ID,
		"title", book.Title,
		"status", string(book.SearchStatus),
	)
	return book, nil
}

// searchAndMerge performs the external search, matching, and merge steps.
// Adapter and matcher problems degrade to a not_found status; only a
// panic during the merge is reported as an error.
func (o *Orchestrator) searchAndMerge(ctx context.Context, book *domain.Book) (status domain.SearchStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panic for book %s: %v", book.ID, r)
		}
	}()

	candidates, searchErr := o.searcher.Search(ctx, book.Title, book.Author, o.maxCandidates)
	if searchErr != nil {
		o.logger.Warn("metadata search failed, treating as miss",
			"book_id", book.ID,
			"error", searchErr,
		)
		return domain.StatusNotFound, nil
	}
	if len(candidates) == 0 {
		return domain.StatusNotFound, nil
	}

	best := match.BestMatch(candidates, book.Title, book.Author)
	if best == nil {
		return domain.StatusNotFound, nil
	}

	mergeCandidate(book, best)
	return domain.StatusFound, nil
}

// rollback returns a record to pending after an unexpected failure.
func (o *Orchestrator) rollback(ctx context.Context, book *domain.Book) {
	book.SearchStatus = domain.StatusPending
	book.Touch()
	if err := o.store.UpdateBook(ctx, book); err != nil {
		o.logger.Error("failed to roll back enrichment status",
			"book_id", book.ID,
			"error", err,
		)
	}
}

// ItemResult is the outcome for one record in a batch run.
type ItemResult struct {
	BookID string              `json:"book_id"`
	Title  string              `json:"title,omitempty"`
	Status domain.SearchStatus `json:"status,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// BatchSummary aggregates a batch enrichment run.
type BatchSummary struct {
	Total    int          `json:"total"`
	Found    int          `json:"found"`
	NotFound int          `json:"not_found"`
	Failed   int          `json:"failed"`
	Results  []ItemResult `json:"results"`
}

// EnrichBatch enriches the given records sequentially, pacing external
// calls with the configured limiter. A failure on one record is recorded
// and the batch continues.
func (o *Orchestrator) EnrichBatch(ctx context.Context, bookIDs []string) (*BatchSummary, error) {
	summary := &BatchSummary{
		Total:   len(bookIDs),
		Results: make([]ItemResult, 0, len(bookIDs)),
	}

	for _, id := range bookIDs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		book, err := o.EnrichBook(ctx, id)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, ItemResult{BookID: id, Error: err.Error()})
			o.logger.Warn("batch enrichment item failed", "book_id", id, "error", err)
			continue
		}

		switch book.SearchStatus {
		case domain.StatusFound:
			summary.Found++
		default:
			summary.NotFound++
		}
		summary.Results = append(summary.Results, ItemResult{
			BookID: book.ID,
			Title:  book.Title,
			Status: book.SearchStatus,
		})
	}

	return summary, nil
}

// EnrichAllPending enriches every record still in pending status.
func (o *Orchestrator) EnrichAllPending(ctx context.Context) (*BatchSummary, error) {
	ids, err := o.store.ListBookIDsByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending books: %w", err)
	}
	return o.EnrichBatch(ctx, ids)
}
