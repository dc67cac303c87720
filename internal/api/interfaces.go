package api

import (
	"context"

	"shellbox/internal/auth"
	"shellbox/internal/session"
)

// SessionService abstracts session management operations needed by API handlers.
type SessionService interface {
	Create(ctx context.Context, owner auth.Identity, imageHint string) (*session.SessionView, error)
	Get(ctx context.Context, id string, requester auth.Identity) (*session.SessionView, error)
	List(ctx context.Context, requester auth.Identity) []session.SessionView
	Exec(ctx context.Context, sessionID string, requester auth.Identity, command string) (*session.ExecResult, error)
	Terminate(ctx context.Context, sessionID string, requester auth.Identity) error
	Health() session.Health
}
