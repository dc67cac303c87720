package session

import (
	"context"
	"fmt"

	"shellbox/internal/auth"
)

func (m *Manager) Get(ctx context.Context, id string, requester auth.Identity) (*SessionView, error) {
	sess, ok := m.reg.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !canAccess(requester, sess.Owner) {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, id)
	}
	return view(sess), nil
}

// List returns the requester's sessions; admins see everyone's.
func (m *Manager) List(ctx context.Context, requester auth.Identity) []SessionView {
	sessions := m.reg.List()
	if !requester.Admin {
		sessions = m.reg.ListByOwner(requester.Name)
	}

	result := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		v := view(s)
		v.RecentLog = nil // history only on single-session views
		result = append(result, *v)
	}
	return result
}

// Terminate tears the session down. Idempotent: an unknown or already-gone
// session is a no-op success, which covers both double termination and
// racing with the reaper.
func (m *Manager) Terminate(ctx context.Context, sessionID string, requester auth.Identity) error {
	sess, ok := m.reg.Get(sessionID)
	if !ok {
		return nil
	}
	if !canAccess(requester, sess.Owner) {
		return fmt.Errorf("%w: %s", ErrForbidden, sessionID)
	}

	m.teardown(ctx, sessionID)
	m.logger.Info("session terminated", "session_id", sessionID, "requester", requester.Name)
	return nil
}

// Expire is the reaper's entry into the teardown path; no authorization.
func (m *Manager) Expire(ctx context.Context, sessionID string) {
	m.teardown(ctx, sessionID)
}
