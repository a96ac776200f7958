// ABOUTME: HTTP server wiring the auth, task, and user endpoints together
// ABOUTME: Route-class access control is applied here, per-resource checks in handlers

package server

import (
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/store"
)

// Server owns the HTTP surface. It is stateless between requests; all
// persistence goes through the store and all identity through tokens.
type Server struct {
	cfg     *config.Config
	store   store.Store
	authSvc *auth.Service
	tokens  auth.TokenVerifier
	logger  *slog.Logger
	metrics *metrics
}

// New creates a server. The logger must not be nil-defaulted by callers
// that want component scoping; a nil logger falls back to slog.Default.
func New(cfg *config.Config, st store.Store, authSvc *auth.Service, tokens auth.TokenVerifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		store:   st,
		authSvc: authSvc,
		tokens:  tokens,
		logger:  logger.With("component", "server"),
	}
	if cfg.Metrics.Enabled {
		s.metrics = newMetrics()
	}
	return s
}

// Handler builds the full middleware chain and route table.
//
// Route classes:
//   - /api/auth/** and /health are public
//   - /api/tasks/** requires any authenticated identity
//   - /api/users/** requires ADMIN
//
// Identity resolution itself never rejects; the gates do.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	requireUser := auth.RequireUser(respondError)
	requireAdmin := auth.RequireAdmin(respondError)

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("GET /api/tasks", requireUser(http.HandlerFunc(s.handleListTasks)))
	mux.Handle("POST /api/tasks", requireUser(http.HandlerFunc(s.handleCreateTask)))
	mux.Handle("GET /api/tasks/paged", requireUser(http.HandlerFunc(s.handleListTasksPaged)))
	mux.Handle("GET /api/tasks/{id}", requireUser(http.HandlerFunc(s.handleGetTask)))
	mux.Handle("PUT /api/tasks/{id}", requireUser(http.HandlerFunc(s.handleUpdateTask)))
	mux.Handle("DELETE /api/tasks/{id}", requireUser(http.HandlerFunc(s.handleDeleteTask)))

	mux.Handle("POST /api/users", requireAdmin(http.HandlerFunc(s.handleCreateUser)))
	mux.Handle("GET /api/users", requireAdmin(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("GET /api/users/{id}", requireAdmin(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("PUT /api/users/{id}", requireAdmin(http.HandlerFunc(s.handleUpdateUser)))
	mux.Handle("DELETE /api/users/{id}", requireAdmin(http.HandlerFunc(s.handleDeleteUser)))

	var handler http.Handler = mux
	if s.metrics != nil {
		mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics.handler())
		handler = s.metrics.instrument(mux)
	}

	handler = auth.ResolveIdentity(s.store, s.tokens, s.logger)(handler)
	handler = recoverMiddleware(s.logger)(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "ok", map[string]string{"status": "healthy"})
}
