package api

import (
	"encoding/json/v2"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/store"
)

func (s *Server) handleEnrichBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	book, err := s.orchestrator.EnrichBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			response.NotFound(w, "Book not found", s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// EnrichBatchRequest selects records for batch enrichment: an explicit
// id list, or every record still in pending status.
type EnrichBatchRequest struct {
	BookIDs    []string `json:"book_ids,omitempty"`
	AllPending bool     `json:"all_pending,omitempty"`
}

func (s *Server) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	var req EnrichBatchRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if !req.AllPending && len(req.BookIDs) == 0 {
		response.BadRequest(w, "Provide book_ids or set all_pending", s.logger)
		return
	}

	if req.AllPending {
		result, e := s.orchestrator.EnrichAllPending(r.Context())
		if e != nil {
			response.HandleError(w, e, s.logger)
			return
		}
		response.Success(w, result, s.logger)
		return
	}

	result, err := s.orchestrator.EnrichBatch(r.Context(), req.BookIDs)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
