package preview

import (
	"context"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// MockEngine records engine calls for dispatcher and server tests.
type MockEngine struct {
	mock.Mock
	state domain.SessionState
}

func newMockEngine(seed map[string]any) *MockEngine {
	return &MockEngine{state: domain.NewSessionState(seed)}
}

func (m *MockEngine) Current(ctx context.Context) (domain.Output, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Output), args.Error(1)
}

func (m *MockEngine) Goto(ctx context.Context, passageID string) (domain.Output, error) {
	args := m.Called(ctx, passageID)
	return args.Get(0).(domain.Output), args.Error(1)
}

func (m *MockEngine) Choose(ctx context.Context, index int) (domain.Output, error) {
	args := m.Called(ctx, index)
	return args.Get(0).(domain.Output), args.Error(1)
}

func (m *MockEngine) State() domain.SessionState {
	return m.state
}
