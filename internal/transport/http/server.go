package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
	"wordduel/internal/config"
	"wordduel/internal/store"
	"wordduel/internal/transport/ws"
)

// apiTimeout bounds REST handlers. The WebSocket route is mounted outside it.
const apiTimeout = 10 * time.Second

// Archive is the read side of the match archive
type Archive interface {
	Recent(ctx context.Context, limit int) ([]store.MatchRecord, error)
	Get(ctx context.Context, matchID string) (store.MatchRecord, error)
}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	hub     *app.Hub
	archive Archive
	config  *config.Config
	logger  zerolog.Logger
}

// NewServer creates a new HTTP server. archive may be nil, in which case
// the archive endpoints answer 503.
func NewServer(cfg *config.Config, hub *app.Hub, archive Archive, logger zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		hub:     hub,
		archive: archive,
		config:  cfg,
		logger:  logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:        cfg.GetAddr(),
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(apiTimeout))

		r.Get("/health", s.handleHealth)
		r.Get("/stats", s.handleStats)
		r.Get("/words/{word}", s.handleCheckWord)

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", s.handleCreateMatch)
			r.Get("/recent", s.handleRecentMatches)
			r.Get("/archive/{matchId}", s.handleArchivedMatch)
			r.Get("/{matchId}", s.handleGetMatch)
			r.Post("/{matchId}/players", s.handleJoinMatch)
			r.Post("/{matchId}/submissions", s.handleSubmitWord)
		})
	})

	r.Method(http.MethodGet, "/ws", ws.NewHandler(s.hub, s.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "No route for "+r.URL.Path)
	})
}

// Handler exposes the router, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		level := zerolog.InfoLevel
		if !s.config.IsDevelopment() && r.URL.Path == "/api/health" {
			level = zerolog.DebugLevel
		}
		s.logger.WithLevel(level).
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// cors allows any origin; clients carry no credentials
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("server shutting down")
	return s.server.Shutdown(ctx)
}
