package suggest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/commitformat/internal/commands/handler"
	"github.com/thomas-vilte/commitformat/internal/models"
)

type MockCommitService struct {
	mock.Mock
}

func (m *MockCommitService) Suggest(ctx context.Context, feedback *models.VerificationResult) (*models.PipelineResult, error) {
	args := m.Called(ctx, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

func (m *MockCommitService) Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error) {
	args := m.Called(ctx, commit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

type MockCommitHandler struct {
	mock.Mock
}

func (m *MockCommitHandler) Commit(ctx context.Context, commit models.CandidateCommit, mode handler.PushMode) error {
	args := m.Called(ctx, commit, mode)
	return args.Error(0)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) IsRepository(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
