package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mrowan/craglog/internal/logging"
	"github.com/mrowan/craglog/internal/openbeta"
	"github.com/mrowan/craglog/internal/service"
)

type Server struct {
	catalog   *service.CatalogService
	search    *service.SearchService
	climbs    *service.ClimbService
	admin     *service.AdminService
	importer  *openbeta.Importer
	uploadDir string
	jwtSecret string
	router    chi.Router
	logger    *slog.Logger
}

func NewServer(
	catalog *service.CatalogService,
	search *service.SearchService,
	climbs *service.ClimbService,
	admin *service.AdminService,
	importer *openbeta.Importer,
	uploadDir string,
	jwtSecret string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		catalog:   catalog,
		search:    search,
		climbs:    climbs,
		admin:     admin,
		importer:  importer,
		uploadDir: uploadDir,
		jwtSecret: jwtSecret,
		router:    chi.NewRouter(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return requestLogger(s.logger, next)
	})
	s.router.Use(s.identity)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/areas", func(r chi.Router) {
			r.Get("/", s.handleListAreas)
			r.Post("/", s.handleCreateArea)
			r.Get("/search", s.handleSearchAreas)
			r.Get("/nearby", s.handleNearbyAreas)
			r.Get("/by-state", s.handleStateSummaries)
			r.Get("/by-state/{state}", s.handleAreasInState)
			r.Get("/{id}", s.handleGetArea)
		})

		r.Route("/climbs", func(r chi.Router) {
			r.Get("/", s.handleListClimbs)
			r.Post("/", s.handleCreateClimb)
			r.Get("/{id}", s.handleGetClimb)
			r.Post("/{id}/notes", requireUser(s.handleAddNote))
			r.Post("/{id}/media", requireUser(s.handleUploadMedia))
		})

		r.Get("/search", s.handleUnifiedSearch)

		r.Route("/import", func(r chi.Router) {
			r.Post("/search", s.handleImportByName)
			r.Post("/all-states", s.handleImportAllStates)
			r.Post("/fix-states", s.handleFixStates)
			r.Delete("/area/{areaName}", s.handleDeleteAreaByName)
			r.Delete("/reset", s.handleReset)
		})

		r.Post("/seed/sample", s.handleSeedSample)
	})

	fileServer := http.FileServer(http.Dir(s.uploadDir))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request", logging.RequestAttrs(r.Method, r.URL.Path, rec.status, time.Since(start))...)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
