package api

import (
	"net/http"
	"strconv"

	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/search"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.searchIndex == nil {
		response.Error(w, http.StatusServiceUnavailable, "Search index not configured", s.logger)
		return
	}

	q := r.URL.Query()
	params := search.DefaultParams()
	params.Query = q.Get("q")
	params.Genre = q.Get("genre")

	if raw := q.Get("shelf"); raw != "" {
		shelf, err := strconv.Atoi(raw)
		if err != nil {
			response.HandleError(w, errInvalidParam("shelf"), s.logger)
			return
		}
		params.Shelf = shelf
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.HandleError(w, errInvalidParam("limit"), s.logger)
			return
		}
		params.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			response.HandleError(w, errInvalidParam("offset"), s.logger)
			return
		}
		params.Offset = offset
	}
	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}

	result, err := s.searchIndex.Search(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
