package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shellbox/internal/auth"
	"shellbox/internal/backend"
	"shellbox/internal/registry"
)

// Exec runs a command in the session's execution unit. Per-session execs are
// serialized; a real session whose backend vanishes mid-flight is downgraded
// to mock permanently and the command retried once so the user keeps their
// session.
func (m *Manager) Exec(ctx context.Context, sessionID string, requester auth.Identity, command string) (*ExecResult, error) {
	sess, err := m.validateSession(sessionID, requester)
	if err != nil {
		return nil, err
	}

	if ok := m.reg.RecordActivity(sessionID); !ok {
		// Lost a race with teardown between lookup and activity update.
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	// Serialize exec per session.
	mu := m.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the exec lock: a concurrent command may have downgraded
	// the session while we waited.
	if cur, ok := m.reg.Get(sessionID); ok {
		sess = cur
	}

	res, mode, err := m.dispatch(ctx, sess, command)
	if err != nil {
		if errors.Is(err, backend.ErrExec) {
			// A failed command, not a failed session.
			res = &backend.ExecResult{
				Output:   err.Error() + "\n",
				ExitCode: -1,
			}
		} else {
			return nil, fmt.Errorf("exec: %w", err)
		}
	}

	m.reg.AppendLog(sessionID, registry.LogEntry{
		Timestamp: time.Now().UTC(),
		Command:   command,
		Output:    res.Output,
		ExitCode:  res.ExitCode,
	})

	return &ExecResult{
		Output:   res.Output,
		ExitCode: res.ExitCode,
		Mode:     mode,
	}, nil
}

// validateSession checks existence, expiry, and authorization, in that
// order. Crossing the idle threshold triggers the same teardown the reaper
// uses.
func (m *Manager) validateSession(sessionID string, requester auth.Identity) (registry.Session, error) {
	sess, ok := m.reg.Get(sessionID)
	if !ok {
		return registry.Session{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if m.isExpired(sess) {
		m.Expire(context.Background(), sessionID)
		return registry.Session{}, fmt.Errorf("%w: %s", ErrExpired, sessionID)
	}
	if !canAccess(requester, sess.Owner) {
		return registry.Session{}, fmt.Errorf("%w: %s", ErrForbidden, sessionID)
	}
	return sess, nil
}

func (m *Manager) dispatch(ctx context.Context, sess registry.Session, command string) (*backend.ExecResult, backend.Mode, error) {
	if sess.Mode == backend.ModeMock {
		res, err := m.mock.Exec(ctx, sess.Handle, command)
		return res, backend.ModeMock, err
	}

	res, err := m.real.Exec(ctx, sess.Handle, command)
	if err != nil && errors.Is(err, backend.ErrUnavailable) {
		m.logger.Warn("backend lost mid-session, downgrading to mock", "session_id", sess.ID, "error", err)
		m.reg.Downgrade(sess.ID)
		res, err = m.mock.Exec(ctx, sess.Handle, command)
		return res, backend.ModeMock, err
	}
	return res, backend.ModeReal, err
}
