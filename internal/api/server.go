// Package api is the HTTP surface of ticketgest.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/ticketgest/internal/config"
	"github.com/dgallion1/ticketgest/internal/metrics"
	"github.com/dgallion1/ticketgest/internal/pathstore"
	"github.com/dgallion1/ticketgest/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TicketBrowser lists and deletes stored tickets. *pathstore.Client
// implements it.
type TicketBrowser interface {
	ListTickets(ctx context.Context, format string, limit int) ([]pathstore.ListChildrenResponse, error)
	DeleteTicket(ctx context.Context, format, key string) error
}

// Server is the HTTP API server for ticketgest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	extractor    *pipeline.Extractor
	tickets      TicketBrowser
	metrics      *metrics.Metrics
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. tickets may be nil when
// no store is configured.
func NewServer(orch *pipeline.Orchestrator, extractor *pipeline.Extractor, tickets TicketBrowser, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	if m == nil {
		m = metrics.New()
	}
	s := &Server{
		orchestrator: orch,
		extractor:    extractor,
		tickets:      tickets,
		metrics:      m,
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
	r.Use(RequestLogger(s.log, s.metrics))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/tickets", s.handleListTickets)
		r.Delete("/api/tickets/{format}/{key}", s.handleDeleteTicket)

		r.Post("/api/resolve", s.handleResolve)
		r.Post("/api/reports/parse", s.handleParseReport)
		r.Post("/api/onecall", s.handleOneCall)

		r.Get("/api/stats/extract", s.handleExtractStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
