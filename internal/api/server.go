package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/splitml/internal/config"
	"github.com/dgallion1/splitml/internal/pipeline"
	"github.com/dgallion1/splitml/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for splitml.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	pipeline     *pipeline.Pipeline
	latency      *stats.Latency
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. latency may be nil.
func NewServer(orch *pipeline.Orchestrator, latency *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		pipeline:     orch.Pipeline(),
		latency:      latency,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/split", s.handleSplit)
		r.Post("/api/chunk", s.handleChunk)
		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
