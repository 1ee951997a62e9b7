package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/shelfline/shelfline-server/internal/http/response"
)

// AssignShelfRequest moves many records onto one shelf slot.
type AssignShelfRequest struct {
	BookIDs []string `json:"book_ids"`
	Shelf   int      `json:"shelf"`
}

func (s *Server) handleAssignShelfBulk(w http.ResponseWriter, r *http.Request) {
	var req AssignShelfRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.bookService.AssignShelfBulk(r.Context(), req.BookIDs, req.Shelf)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// ScanRequest assigns a shelf via barcode scan.
type ScanRequest struct {
	Barcode string `json:"barcode"`
	Shelf   int    `json:"shelf"`
}

func (s *Server) handleScanAssignShelf(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.scanService.ScanAssignShelf(r.Context(), req.Barcode, req.Shelf)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
