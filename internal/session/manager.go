// Package session orchestrates the session lifecycle: creation against the
// execution backend, command dispatch, expiry, and teardown. The manager owns
// every execution handle's lifecycle; no other component stops or removes
// units.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shellbox/internal/auth"
	"shellbox/internal/backend"
	"shellbox/internal/config"
	"shellbox/internal/image"
	"shellbox/internal/registry"
)

type Manager struct {
	cfg    *config.Config
	reg    *registry.Registry
	real   backend.Backend
	mock   backend.Backend
	images image.Provider
	logger *slog.Logger

	// Per-session mutexes to serialize exec calls.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

func NewManager(cfg *config.Config, reg *registry.Registry, real, mock backend.Backend, images image.Provider, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		reg:    reg,
		real:   real,
		mock:   mock,
		images: images,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SessionView is the externally visible projection of a session.
type SessionView struct {
	ID           string              `json:"id"`
	Owner        string              `json:"owner"`
	Image        string              `json:"image"`
	Mode         backend.Mode        `json:"mode"`
	CreatedAt    time.Time           `json:"created_at"`
	LastAccessed time.Time           `json:"last_accessed"`
	CommandCount int                 `json:"command_count"`
	RecentLog    []registry.LogEntry `json:"recent_log,omitempty"`
}

// ExecResult carries a command's outcome plus the session's current mode so
// callers can surface mock-mode banners.
type ExecResult struct {
	Output   string       `json:"output"`
	ExitCode int          `json:"exit_code"`
	Mode     backend.Mode `json:"mode"`
}

// Health is the read-only surface for the health-check responder.
type Health struct {
	ActiveSessions int `json:"active_sessions"`
	MaxSessions    int `json:"max_sessions"`
}

func (m *Manager) Health() Health {
	return Health{
		ActiveSessions: m.reg.Active(),
		MaxSessions:    m.reg.Max(),
	}
}

func (m *Manager) sessionLock(id string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	mu, ok := m.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		m.locks[id] = mu
	}
	return mu
}

func (m *Manager) removeSessionLock(id string) {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	delete(m.locks, id)
}

func (m *Manager) idleTimeout() time.Duration {
	return time.Duration(m.cfg.IdleTimeoutSeconds) * time.Second
}

func (m *Manager) isExpired(sess registry.Session) bool {
	return time.Since(sess.LastAccessed) > m.idleTimeout()
}

func canAccess(requester auth.Identity, owner string) bool {
	return requester.Admin || requester.Name == owner
}

// destroyUnit routes teardown to the backend that issued the handle. A
// downgraded session keeps its real handle, so the real container still gets
// a removal attempt.
func (m *Manager) destroyUnit(ctx context.Context, sess registry.Session) error {
	if backend.IsMockHandle(sess.Handle) {
		return m.mock.DestroyUnit(ctx, sess.Handle)
	}
	return m.real.DestroyUnit(ctx, sess.Handle)
}

// teardown removes the session and destroys its unit. The registry removal
// is the atomic decrement; the external call happens after, outside any lock,
// and its failure is recorded but never propagated.
func (m *Manager) teardown(ctx context.Context, id string) {
	sess, ok := m.reg.Remove(id)
	if !ok {
		return
	}
	m.removeSessionLock(id)
	if err := m.destroyUnit(ctx, sess); err != nil {
		m.logger.Warn("teardown: destroy unit", "session_id", id, "handle", sess.Handle, "error", err)
	}
}

func view(sess registry.Session) *SessionView {
	return &SessionView{
		ID:           sess.ID,
		Owner:        sess.Owner,
		Image:        sess.Image,
		Mode:         sess.Mode,
		CreatedAt:    sess.CreatedAt,
		LastAccessed: sess.LastAccessed,
		CommandCount: sess.CommandCount,
		RecentLog:    sess.RecentLog,
	}
}

func (m *Manager) isImageAllowed(img string) bool {
	if len(m.cfg.AllowedImages) == 0 {
		return true
	}
	for _, allowed := range m.cfg.AllowedImages {
		if allowed == img {
			return true
		}
	}
	return false
}
