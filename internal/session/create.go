package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shellbox/internal/auth"
	"shellbox/internal/backend"
	"shellbox/internal/registry"
)

// Create allocates a session and its execution unit. A backend that cannot
// be reached degrades the session to mock mode instead of failing the
// request; any other creation error leaves nothing behind.
func (m *Manager) Create(ctx context.Context, owner auth.Identity, imageHint string) (*SessionView, error) {
	if !m.reg.Reserve() {
		return nil, fmt.Errorf("%w: limit %d", ErrCapacity, m.reg.Max())
	}

	img := m.resolveImage(ctx, imageHint)
	mode := backend.ModeReal

	if err := m.images.Ensure(ctx, img); err != nil {
		m.logger.Warn("image unavailable, session degrades to mock", "image", img, "error", err)
		mode = backend.ModeMock
	}

	var handle string
	if mode == backend.ModeReal {
		h, err := m.real.CreateUnit(ctx, img, m.limits())
		switch {
		case err == nil:
			handle = h
		case errors.Is(err, backend.ErrUnavailable):
			m.logger.Warn("backend unavailable, session degrades to mock", "error", err)
			mode = backend.ModeMock
		default:
			m.reg.Release()
			return nil, fmt.Errorf("%w: %v", ErrCreateFailed, err)
		}
	}

	if mode == backend.ModeMock {
		handle, _ = m.mock.CreateUnit(ctx, img, m.limits())
	}

	now := time.Now().UTC()
	sess := &registry.Session{
		ID:           uuid.New().String()[:12],
		Owner:        owner.Name,
		Handle:       handle,
		Image:        img,
		Mode:         mode,
		CreatedAt:    now,
		LastAccessed: now,
	}
	m.reg.Insert(sess)

	m.logger.Info("session created", "session_id", sess.ID, "owner", sess.Owner, "image", img, "mode", mode)
	return view(*sess), nil
}

// resolveImage picks the requested image when it is allowed and locally
// known, otherwise the configured default.
func (m *Manager) resolveImage(ctx context.Context, hint string) string {
	if hint != "" && m.isImageAllowed(hint) && m.images.Exists(ctx, hint) {
		return hint
	}
	return m.cfg.DefaultImage
}

func (m *Manager) limits() backend.Limits {
	return backend.Limits{
		CPULimit:    m.cfg.Defaults.CPULimit,
		MemLimit:    m.cfg.Defaults.MemLimit,
		PidsLimit:   m.cfg.Defaults.PidsLimit,
		NetworkMode: m.cfg.Defaults.NetworkMode,
	}
}
