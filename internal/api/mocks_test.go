package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shellbox/internal/auth"
	"shellbox/internal/session"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, owner auth.Identity, imageHint string) (*session.SessionView, error) {
	args := m.Called(ctx, owner, imageHint)
	if info := args.Get(0); info != nil {
		return info.(*session.SessionView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id string, requester auth.Identity) (*session.SessionView, error) {
	args := m.Called(ctx, id, requester)
	if info := args.Get(0); info != nil {
		return info.(*session.SessionView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) List(ctx context.Context, requester auth.Identity) []session.SessionView {
	args := m.Called(ctx, requester)
	if sessions := args.Get(0); sessions != nil {
		return sessions.([]session.SessionView)
	}
	return nil
}

func (m *MockSessionService) Exec(ctx context.Context, sessionID string, requester auth.Identity, command string) (*session.ExecResult, error) {
	args := m.Called(ctx, sessionID, requester, command)
	if result := args.Get(0); result != nil {
		return result.(*session.ExecResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionService) Terminate(ctx context.Context, sessionID string, requester auth.Identity) error {
	args := m.Called(ctx, sessionID, requester)
	return args.Error(0)
}

func (m *MockSessionService) Health() session.Health {
	args := m.Called()
	return args.Get(0).(session.Health)
}
