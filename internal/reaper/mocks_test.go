package reaper

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shellbox/internal/registry"
)

// MockSessionLister mocks the SessionLister interface.
type MockSessionLister struct {
	mock.Mock
}

func (m *MockSessionLister) List() []registry.Session {
	args := m.Called()
	if sessions := args.Get(0); sessions != nil {
		return sessions.([]registry.Session)
	}
	return nil
}

// MockSessionExpirer mocks the SessionExpirer interface.
type MockSessionExpirer struct {
	mock.Mock
}

func (m *MockSessionExpirer) Expire(ctx context.Context, sessionID string) {
	m.Called(ctx, sessionID)
}
