package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const mockHandlePrefix = "mock-"

// IsMockHandle reports whether a handle was issued by the mock backend.
func IsMockHandle(handle string) bool {
	return strings.HasPrefix(handle, mockHandlePrefix)
}

// Mock simulates an execution backend. Handles are synthetic, commands never
// run anywhere, and every operation succeeds. The short exec delay models
// realistic latency so the UI behaves as it would against real containers.
type Mock struct {
	delay time.Duration
	now   func() time.Time
}

func NewMock(delay time.Duration) *Mock {
	return &Mock{
		delay: delay,
		now:   time.Now,
	}
}

func (m *Mock) CreateUnit(ctx context.Context, image string, limits Limits) (string, error) {
	return mockHandlePrefix + uuid.New().String()[:12], nil
}

func (m *Mock) Exec(ctx context.Context, handle, command string) (*ExecResult, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrExec, ctx.Err())
		}
	}

	ts := m.now().UTC().Format(time.RFC3339)
	return &ExecResult{
		Output:   fmt.Sprintf("[simulated %s] $ %s\n(command executed in mock mode — no container attached)\n", ts, command),
		ExitCode: 0,
	}, nil
}

func (m *Mock) DestroyUnit(ctx context.Context, handle string) error {
	return nil
}
