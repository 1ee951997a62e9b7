// Package api provides the HTTP API server and handlers for the Shelfline catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfline/shelfline-server/internal/enrich"
	"github.com/shelfline/shelfline-server/internal/importer"
	"github.com/shelfline/shelfline-server/internal/search"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	bookService  *service.BookService
	scanService  *service.ScanService
	orchestrator *enrich.Orchestrator
	importer     *importer.Importer
	searchIndex  *search.CatalogIndex
	router       *chi.Mux
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, bookService *service.BookService, scanService *service.ScanService, orchestrator *enrich.Orchestrator, imp *importer.Importer, searchIndex *search.CatalogIndex, logger *slog.Logger) *Server {
	s := &Server{
		store:        st,
		bookService:  bookService,
		scanService:  scanService,
		orchestrator: orchestrator,
		importer:     imp,
		searchIndex:  searchIndex,
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleCreateBook)
			r.Get("/stats", s.handleGetStats)
			r.Get("/export", s.handleExportBooks)
			r.Post("/upload", s.handleUploadBooks)
			r.Post("/enrich-batch", s.handleEnrichBatch)
			r.Post("/shelf", s.handleAssignShelfBulk)
			r.Post("/scan-assign-shelf", s.handleScanAssignShelf)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBook)
				r.Patch("/", s.handleUpdateBook)
				r.Delete("/", s.handleDeleteBook)
				r.Post("/enrich", s.handleEnrichBook)
			})
		})

		r.Get("/search", s.handleSearch)
	})
}
