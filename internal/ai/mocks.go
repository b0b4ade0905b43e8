package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompleter is a testify mock of Completer shared by the consumers' tests.
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Completion), args.Error(1)
}

func (m *MockCompleter) ProviderName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCompleter) ModelName() string {
	args := m.Called()
	return args.String(0)
}
