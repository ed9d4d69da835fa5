package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ProgramStore persists generated programs. *storage.DB satisfies it.
type ProgramStore interface {
	SaveProgram(ctx context.Context, profile models.Profile, prog *models.Program) (*models.StoredProgram, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error)
	ListPrograms(ctx context.Context, limit int) ([]storage.ProgramSummary, error)
}

// Compile-time check: *storage.DB satisfies ProgramStore.
var _ ProgramStore = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	programs  ProgramStore
	catalog   catalog.Store
	generator *program.Generator
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured. programs may be nil,
// in which case only preview generation and catalog reads are served.
func New(programs ProgramStore, store catalog.Store, gen *program.Generator, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		programs:  programs,
		catalog:   store,
		generator: gen,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/programs", s.handleCreateProgram)
		r.Post("/programs/preview", s.handlePreviewProgram)
		r.Get("/programs", s.handleListPrograms)
		r.Get("/programs/{id}", s.handleGetProgram)

		r.Get("/exercises", s.handleQueryExercises)
		r.Get("/splits", s.handleSplits)
	})
}

// Mount attaches an API-key protected handler (the MCP transport) at path.
func (s *Server) Mount(path string, h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle(path, h)
}
