package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/commitformat/internal/generator"
	"github.com/thomas-vilte/commitformat/internal/models"
)

type (
	MockGitService struct {
		mock.Mock
	}

	MockGenerator struct {
		mock.Mock
	}

	MockVerifier struct {
		mock.Mock
	}

	MockUsageReporter struct {
		mock.Mock
	}
)

func (m *MockGitService) IsRepository(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockGitService) HasChanges(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitService) GetChangedFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGitService) GetDiff(ctx context.Context, stagedOnly bool) (string, error) {
	args := m.Called(ctx, stagedOnly)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetRecentCommitMessages(ctx context.Context, count int) ([]string, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGitService) StageAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGitService) CreateCommit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockGenerator) Generate(ctx context.Context, req generator.Request) (*models.CandidateCommit, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CandidateCommit), args.Error(1)
}

func (m *MockVerifier) Verify(ctx context.Context, commit models.CandidateCommit, diffText string, analysis *models.DiffAnalysis) (*models.VerificationResult, error) {
	args := m.Called(ctx, commit, diffText, analysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationResult), args.Error(1)
}

func (m *MockVerifier) Engine() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUsageReporter) Total() (models.TokenUsage, int) {
	args := m.Called()
	return args.Get(0).(models.TokenUsage), args.Int(1)
}
