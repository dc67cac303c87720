package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"shellbox/internal/auth"
	"shellbox/internal/config"
)

type Server struct {
	cfg          *config.Config
	manager      SessionService
	users        *auth.Table
	logger       *slog.Logger
	mux          *http.ServeMux
	backendState string // "connected" or "degraded", from the startup probe
}

func NewServer(cfg *config.Config, mgr SessionService, users *auth.Table, backendState string, logger *slog.Logger) *Server {
	s := &Server{
		cfg:          cfg,
		manager:      mgr,
		users:        users,
		logger:       logger,
		mux:          http.NewServeMux(),
		backendState: backendState,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.authMiddleware(s.requestIDMiddleware(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("POST /v1/sessions/{id}/exec", s.handleExec)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleTerminateSession)

	// Health check (no auth)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.manager.Health()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"backend":         s.backendState,
		"active_sessions": h.ActiveSessions,
		"max_sessions":    h.MaxSessions,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
