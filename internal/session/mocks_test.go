package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shellbox/internal/backend"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CreateUnit(ctx context.Context, image string, limits backend.Limits) (string, error) {
	args := m.Called(ctx, image, limits)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Exec(ctx context.Context, handle, command string) (*backend.ExecResult, error) {
	args := m.Called(ctx, handle, command)
	if res := args.Get(0); res != nil {
		return res.(*backend.ExecResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) DestroyUnit(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

type MockImageProvider struct {
	mock.Mock
}

func (m *MockImageProvider) Exists(ctx context.Context, ref string) bool {
	args := m.Called(ctx, ref)
	return args.Bool(0)
}

func (m *MockImageProvider) Ensure(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
