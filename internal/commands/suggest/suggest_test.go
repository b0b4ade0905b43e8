package suggest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/commitformat/internal/commands/handler"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/di"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

type testEnv struct {
	svc      *MockCommitService
	handler  *MockCommitHandler
	git      *MockGitService
	prompter *ui.MockPrompter
	out      *bytes.Buffer
	opts     di.ServiceOptions
	factory  *SuggestCommandFactory
	t        *i18n.Translations
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	env := &testEnv{
		svc:      &MockCommitService{},
		handler:  &MockCommitHandler{},
		git:      &MockGitService{},
		prompter: &ui.MockPrompter{},
		out:      &bytes.Buffer{},
		t:        trans,
	}
	env.git.On("IsRepository", mock.Anything).Return(true).Maybe()
	provider := func(ctx context.Context, opts di.ServiceOptions) (CommitService, error) {
		env.opts = opts
		return env.svc, nil
	}
	env.factory = NewSuggestCommandFactory(provider, env.handler, env.git, env.prompter)
	env.factory.out = env.out
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := e.factory.CreateCommand(e.t, config.DefaultConfig())
	return cmd.Run(context.Background(), append([]string{"suggest"}, args...))
}

func clean(commit *models.CandidateCommit) *models.PipelineResult {
	return &models.PipelineResult{
		Commit: commit,
		Verification: &models.VerificationResult{
			FactualAccuracy: 100,
			VerifiedSymbols: []string{"computeTotal"},
			Reasoning:       "The commit matches the diff.",
			Engine:          models.EngineRubric,
		},
	}
}

func critical(commit *models.CandidateCommit) *models.PipelineResult {
	return &models.PipelineResult{
		Commit: commit,
		Verification: &models.VerificationResult{
			FactualAccuracy:     60,
			HasCriticalIssues:   true,
			HallucinatedSymbols: []string{"UserService"},
			Issues: []models.VerificationIssue{{
				Type:        models.IssueHallucination,
				Severity:    models.SeverityCritical,
				Description: "UserService does not appear in the diff",
			}},
			Engine: models.EngineRubric,
		},
	}
}

var (
	goodCommit = &models.CandidateCommit{Type: "feat", Subject: "add computeTotal"}
	badCommit  = &models.CandidateCommit{Type: "feat", Subject: "add UserService"}
)

func TestSuggestCommand(t *testing.T) {
	t.Run("accepts a clean suggestion", func(t *testing.T) {
		// arrange
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, (*models.VerificationResult)(nil)).Return(clean(goodCommit), nil)
		env.prompter.On("SelectAction", false).Return(ui.ActionAccept, nil)
		env.handler.On("Commit", mock.Anything, *goodCommit, handler.PushAsk).Return(nil)

		// act
		err := env.run("--staged")

		// assert
		require.NoError(t, err)
		assert.True(t, env.opts.StagedOnly)
		assert.True(t, env.opts.Generate)
		assert.Contains(t, env.out.String(), "feat: add computeTotal")
		assert.Contains(t, env.out.String(), "100/100")
		env.handler.AssertExpectations(t)
	})

	t.Run("critical issues feed the regeneration", func(t *testing.T) {
		env := setupTestEnv(t)
		first := critical(badCommit)
		env.svc.On("Suggest", mock.Anything, (*models.VerificationResult)(nil)).Return(first, nil).Once()
		env.svc.On("Suggest", mock.Anything, first.Verification).Return(clean(goodCommit), nil).Once()
		env.prompter.On("SelectAction", true).Return(ui.ActionRegenerate, nil).Once()
		env.prompter.On("SelectAction", false).Return(ui.ActionAccept, nil).Once()
		env.handler.On("Commit", mock.Anything, *goodCommit, handler.PushAlways).Return(nil)

		require.NoError(t, env.run("--push"))
		assert.Contains(t, env.out.String(), "UserService")
		env.svc.AssertExpectations(t)
		env.prompter.AssertExpectations(t)
		env.handler.AssertExpectations(t)
	})

	t.Run("critical suggestion accepted anyway", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(critical(badCommit), nil)
		env.prompter.On("SelectAction", true).Return(ui.ActionAcceptAnyway, nil)
		env.handler.On("Commit", mock.Anything, *badCommit, handler.PushNever).Return(nil)

		require.NoError(t, env.run("--no-push"))
		env.handler.AssertExpectations(t)
	})

	t.Run("cancel does not commit", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(critical(badCommit), nil)
		env.prompter.On("SelectAction", true).Return(ui.ActionCancel, nil)

		require.NoError(t, env.run())
		env.handler.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("verification unavailable still offers the commit", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(&models.PipelineResult{
			Commit:          goodCommit,
			VerificationErr: domainErrors.ErrVerificationUnavailable.WithError(domainErrors.ErrQuotaExceeded),
		}, nil)
		env.prompter.On("SelectAction", false).Return(ui.ActionAccept, nil)
		env.handler.On("Commit", mock.Anything, *goodCommit, handler.PushAsk).Return(nil)

		require.NoError(t, env.run())
		assert.Contains(t, env.out.String(), "Verification unavailable")
	})

	t.Run("edited message is verified again", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(clean(goodCommit), nil)
		env.prompter.On("SelectAction", false).Return(ui.ActionEdit, nil)
		env.prompter.On("Edit", "feat: add computeTotal").Return("feat: add UserService", nil)
		env.svc.On("Verify", mock.Anything, *badCommit).Return(critical(badCommit), nil)
		env.prompter.On("Confirm", mock.Anything).Return(false, nil)

		require.NoError(t, env.run())
		env.prompter.AssertExpectations(t)
		env.handler.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("edited message that is not conventional", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(clean(goodCommit), nil)
		env.prompter.On("SelectAction", false).Return(ui.ActionEdit, nil)
		env.prompter.On("Edit", mock.Anything).Return("added stuff", nil)

		err := env.run()
		assert.ErrorIs(t, err, domainErrors.ErrNotConventional)
	})

	t.Run("not a git repository", func(t *testing.T) {
		env := setupTestEnv(t)
		env.git.ExpectedCalls = nil
		env.git.On("IsRepository", mock.Anything).Return(false)

		err := env.run()
		assert.ErrorIs(t, err, domainErrors.ErrNotInGitRepo)
		env.svc.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
	})

	t.Run("pipeline error is returned", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Suggest", mock.Anything, mock.Anything).Return(nil, domainErrors.ErrNoChanges)

		err := env.run("--offline")
		assert.ErrorIs(t, err, domainErrors.ErrNoChanges)
		assert.True(t, env.opts.Offline)
	})
}
