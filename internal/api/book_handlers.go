package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/store"
)

// bookFilterFromQuery parses the catalog filter query parameters.
func bookFilterFromQuery(r *http.Request) (store.BookFilter, error) {
	q := r.URL.Query()

	filter := store.BookFilter{
		Search:  q.Get("search"),
		Genre:   q.Get("genre"),
		Author:  q.Get("author"),
		Barcode: q.Get("barcode"),
	}

	if raw := q.Get("shelf"); raw != "" {
		shelf, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errInvalidParam("shelf")
		}
		filter.Shelf = shelf
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseSearchStatus(raw)
		if err != nil {
			return filter, errInvalidParam("status")
		}
		filter.Status = status
	}
	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filter, errInvalidParam("skip")
		}
		filter.Skip = skip
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errInvalidParam("limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := bookFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	books, err := s.bookService.ListBooks(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var input service.CreateBookInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.CreateBook(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	book, err := s.bookService.GetBook(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	var input service.UpdateBookInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.UpdateBook(r.Context(), bookID, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	if err := s.bookService.DeleteBook(r.Context(), bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bookService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
