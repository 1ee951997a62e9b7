package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"

	domainerrors "github.com/shelfline/shelfline-server/internal/errors"
	"github.com/shelfline/shelfline-server/internal/http/response"
	"github.com/shelfline/shelfline-server/internal/spreadsheet"
)

// maxUploadSize bounds spreadsheet uploads. Library inventories run to
// a few thousand rows, nowhere near this.
const maxUploadSize = 32 << 20 // 32 MiB

func errInvalidParam(name string) error {
	return domainerrors.Validationf("invalid query parameter %q", name)
}

func (s *Server) handleUploadBooks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file field", s.logger)
		return
	}
	defer file.Close()

	// Reject unreadable file types before parsing anything.
	if !spreadsheet.SupportedExtension(header.Filename) {
		response.HandleError(w, domainerrors.UnsupportedMedia(
			fmt.Sprintf("unsupported file type %q, expected .xlsx or .csv", filepath.Ext(header.Filename))), s.logger)
		return
	}

	autoEnhance := r.URL.Query().Get("auto_enhance") == "true" ||
		r.FormValue("auto_enhance") == "true"

	summary, err := s.importer.Import(r.Context(), header.Filename, file, autoEnhance)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, summary, s.logger)
}

func (s *Server) handleExportBooks(w http.ResponseWriter, r *http.Request) {
	filter, err := bookFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	// Build the workbook in memory first so errors can still produce a
	// clean JSON response.
	var buf bytes.Buffer
	filename, err := s.bookService.ExportBooks(r.Context(), &buf, filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("Failed to write export body", "error", err)
	}
}
