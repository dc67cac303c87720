package api

import (
	"net/http"
)

type createSessionRequest struct {
	Image string `json:"image"`
}

type execRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeValidationError(w, "invalid json: "+err.Error(), nil)
		return
	}
	if err := validateCreateSessionRequest(req); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	requester := identityFrom(r)
	s.logger.Debug("create session request", "owner", requester.Name, "image", req.Image)
	info, err := s.manager.Create(r.Context(), requester, req.Image)
	if err != nil {
		s.logger.Error("create session", "owner", requester.Name, "error", err)
		writeAPIError(w, err)
		return
	}
	s.logger.Debug("session created", "session_id", info.ID, "mode", info.Mode)
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	info, err := s.manager.Get(r.Context(), id, identityFrom(r))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	requester := identityFrom(r)
	sessions := s.manager.List(r.Context(), requester)
	s.logger.Debug("list sessions", "requester", requester.Name, "count", len(sessions))
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	var req execRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeValidationError(w, "invalid json: "+err.Error(), nil)
		return
	}
	if err := validateExecRequest(req); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}

	requester := identityFrom(r)
	s.logger.Debug("exec", "session_id", id, "requester", requester.Name)
	result, err := s.manager.Exec(r.Context(), id, requester, req.Command)
	if err != nil {
		s.logger.Error("exec", "session_id", id, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTerminateSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := ValidateSessionID(id); err != nil {
		writeValidationError(w, err.Error(), nil)
		return
	}
	requester := identityFrom(r)
	s.logger.Debug("terminate session", "session_id", id, "requester", requester.Name)
	if err := s.manager.Terminate(r.Context(), id, requester); err != nil {
		s.logger.Error("terminate", "session_id", id, "error", err)
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
