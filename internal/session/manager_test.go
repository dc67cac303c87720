package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shellbox/internal/auth"
	"shellbox/internal/backend"
	"shellbox/internal/registry"
	"shellbox/internal/testutil"
)

func newTestManager(maxSessions int) (*Manager, *MockBackend, *MockImageProvider, *registry.Registry) {
	cfg := testutil.TestConfig()
	cfg.MaxSessions = maxSessions
	reg := registry.New(maxSessions)
	real := &MockBackend{}
	images := &MockImageProvider{}
	mgr := NewManager(cfg, reg, real, backend.NewMock(0), images, testutil.TestLogger())
	return mgr, real, images, reg
}

func TestIsImageAllowed(t *testing.T) {
	mgr, _, _, _ := newTestManager(5)

	assert.True(t, mgr.isImageAllowed("alpine:3.20"))
	assert.True(t, mgr.isImageAllowed("ubuntu:24.04"))
	assert.False(t, mgr.isImageAllowed("evil-image"))
}

func TestIsImageAllowedNoRestrictions(t *testing.T) {
	mgr, _, _, _ := newTestManager(5)
	mgr.cfg.AllowedImages = nil

	assert.True(t, mgr.isImageAllowed("anything"))
}

func TestCanAccess(t *testing.T) {
	owner := auth.Identity{Name: "alice"}
	other := auth.Identity{Name: "bob"}
	admin := auth.Identity{Name: "root", Admin: true}

	assert.True(t, canAccess(owner, "alice"))
	assert.False(t, canAccess(other, "alice"))
	assert.True(t, canAccess(admin, "alice"))
}

func TestSessionLock(t *testing.T) {
	mgr, _, _, _ := newTestManager(5)

	mu1 := mgr.sessionLock("sess-1")
	mu2 := mgr.sessionLock("sess-1")
	mu3 := mgr.sessionLock("sess-2")

	assert.Same(t, mu1, mu2)
	assert.NotSame(t, mu1, mu3)
}

func TestRemoveSessionLock(t *testing.T) {
	mgr, _, _, _ := newTestManager(5)

	_ = mgr.sessionLock("sess-1")
	assert.Len(t, mgr.locks, 1)

	mgr.removeSessionLock("sess-1")
	assert.Len(t, mgr.locks, 0)

	mgr.removeSessionLock("nonexistent")
}

func TestHealth(t *testing.T) {
	mgr, _, _, reg := newTestManager(5)

	h := mgr.Health()
	assert.Equal(t, 0, h.ActiveSessions)
	assert.Equal(t, 5, h.MaxSessions)

	reg.Insert(testutil.TestSession("s1", "alice"))
	h = mgr.Health()
	assert.Equal(t, 1, h.ActiveSessions)
}
