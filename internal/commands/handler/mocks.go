package handler

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) StageAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGitService) CreateCommit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockGitService) GetCurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) HasRemote(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockGitService) GetDefaultRemote(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) IsHTTPSRemote(ctx context.Context, remote string) (bool, error) {
	args := m.Called(ctx, remote)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitService) HasUpstream(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockGitService) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := m.Called(ctx, remote, branch, setUpstream)
	return args.Error(0)
}

func (m *MockGitService) PushWithToken(ctx context.Context, token, remote, branch string, setUpstream bool) error {
	args := m.Called(ctx, token, remote, branch, setUpstream)
	return args.Error(0)
}

type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
