package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shellbox/internal/auth"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"
)

// identityFrom returns the authenticated identity attached by the auth
// middleware.
func identityFrom(r *http.Request) auth.Identity {
	if id, ok := r.Context().Value(identityKey).(auth.Identity); ok {
		return id
	}
	return auth.Identity{Name: "anonymous"}
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !s.users.Enabled() {
			// No users configured — open access (dev mode). The identity
			// comes from a header so multi-user flows stay testable.
			name := r.Header.Get("X-Shellbox-User")
			if name == "" {
				name = "anonymous"
			}
			ctx := context.WithValue(r.Context(), identityKey, auth.Identity{Name: name})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		authz := r.Header.Get("Authorization")
		if authz == "" {
			writeUnauthorizedError(w, "missing authorization header")
			return
		}

		token := strings.TrimPrefix(authz, "Bearer ")
		if token == authz {
			writeUnauthorizedError(w, "authorization must be a bearer token")
			return
		}

		id, ok := s.users.Lookup(token)
		if !ok {
			writeUnauthorizedError(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()[:8]
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
