package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/lexplain/internal/config"
	"github.com/dgallion1/lexplain/internal/gateway"
	"github.com/dgallion1/lexplain/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP surface over one review session.
type Server struct {
	router       chi.Router
	orchestrator *session.Orchestrator
	latency      *gateway.Latency
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. latency may be nil.
func NewServer(orch *session.Orchestrator, latency *gateway.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
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
	r.Use(AccessLog(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(RequireSessionKey(s.cfg.AuthKey, s.log))

		r.Post("/api/documents", s.handleUpload)

		r.Get("/api/session", s.handleGetSession)
		r.Post("/api/session/analyze", s.handleAnalyze)
		r.Put("/api/session/language", s.handleSetLanguage)
		r.Post("/api/session/checklist", s.handleChecklist)
		r.Post("/api/session/qa", s.handleAsk)
		r.Get("/api/session/stats", s.handleSessionStats)

		r.Get("/api/stats/gateway", s.handleGatewayStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
