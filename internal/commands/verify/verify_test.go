package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/di"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/models"
)

type MockCommitService struct {
	mock.Mock
}

func (m *MockCommitService) Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error) {
	args := m.Called(ctx, commit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

func (m *MockCommitService) VerifyDiff(ctx context.Context, commit models.CandidateCommit, diff string, analysis *models.DiffAnalysis) (*models.PipelineResult, error) {
	args := m.Called(ctx, commit, diff, analysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PipelineResult), args.Error(1)
}

type testEnv struct {
	svc     *MockCommitService
	opts    di.ServiceOptions
	factory *VerifyCommandFactory
	out     *bytes.Buffer
	t       *i18n.Translations
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	env := &testEnv{svc: &MockCommitService{}, out: &bytes.Buffer{}, t: trans}
	env.factory = NewVerifyCommandFactory(func(ctx context.Context, opts di.ServiceOptions) (CommitService, error) {
		env.opts = opts
		return env.svc, nil
	})
	env.factory.out = env.out
	env.factory.stdin = strings.NewReader("")
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := e.factory.CreateCommand(e.t, config.DefaultConfig())
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	return cmd.Run(context.Background(), append([]string{"verify"}, args...))
}

func resultFor(commit models.CandidateCommit, v *models.VerificationResult) *models.PipelineResult {
	return &models.PipelineResult{Commit: &commit, Verification: v}
}

var hallucination = &models.VerificationResult{
	FactualAccuracy:     60,
	HasCriticalIssues:   true,
	HallucinatedSymbols: []string{"UserService"},
	MissingSymbols:      []string{"computeTotal"},
	Issues: []models.VerificationIssue{{
		Type:        models.IssueHallucination,
		Severity:    models.SeverityCritical,
		Description: "UserService is not in the diff",
	}},
	Engine: models.EngineRubric,
}

func TestVerifyCommand(t *testing.T) {
	bad := models.CandidateCommit{Type: "feat", Subject: "add UserService"}
	good := models.CandidateCommit{Type: "feat", Subject: "add computeTotal"}

	t.Run("message flag renders the report", func(t *testing.T) {
		// arrange
		env := setupTestEnv(t)
		env.svc.On("Verify", mock.Anything, bad).Return(resultFor(bad, hallucination), nil)

		// act
		err := env.run("-m", "feat: add UserService", "--offline")

		// assert
		require.NoError(t, err)
		assert.True(t, env.opts.Offline)
		assert.False(t, env.opts.Generate)
		assert.Contains(t, env.out.String(), "60/100")
		assert.Contains(t, env.out.String(), "UserService")
	})

	t.Run("strict fails on critical issues", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Verify", mock.Anything, bad).Return(resultFor(bad, hallucination), nil)

		err := env.run("-m", "feat: add UserService", "--strict")
		require.Error(t, err)
		var exitErr cli.ExitCoder
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, exitCritical, exitErr.ExitCode())
	})

	t.Run("strict passes a clean commit", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Verify", mock.Anything, good).Return(resultFor(good, &models.VerificationResult{FactualAccuracy: 100}), nil)

		assert.NoError(t, env.run("-m", "feat: add computeTotal", "--strict"))
	})

	t.Run("json output", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Verify", mock.Anything, bad).Return(resultFor(bad, hallucination), nil)

		require.NoError(t, env.run("-m", "feat: add UserService", "--json"))

		var doc struct {
			Commit       models.CandidateCommit    `json:"commit"`
			Verification models.VerificationResult `json:"verification"`
		}
		require.NoError(t, json.Unmarshal(env.out.Bytes(), &doc))
		assert.Equal(t, bad, doc.Commit)
		assert.Equal(t, 60, doc.Verification.FactualAccuracy)
		assert.True(t, doc.Verification.HasCriticalIssues)
	})

	t.Run("commit message file from a hook", func(t *testing.T) {
		env := setupTestEnv(t)
		path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
		require.NoError(t, os.WriteFile(path, []byte("feat: add computeTotal\n# Please enter the commit message\n"), 0644))
		env.svc.On("Verify", mock.Anything, good).Return(resultFor(good, &models.VerificationResult{FactualAccuracy: 100}), nil)

		require.NoError(t, env.run("--file", path, "--staged"))
		assert.True(t, env.opts.StagedOnly)
		env.svc.AssertExpectations(t)
	})

	t.Run("diff from stdin", func(t *testing.T) {
		env := setupTestEnv(t)
		env.factory.stdin = strings.NewReader("diff --git a/x.ts b/x.ts\n")
		env.svc.On("VerifyDiff", mock.Anything, good, "diff --git a/x.ts b/x.ts\n", (*models.DiffAnalysis)(nil)).
			Return(resultFor(good, &models.VerificationResult{FactualAccuracy: 100}), nil)

		require.NoError(t, env.run("-m", "feat: add computeTotal", "--diff-file", "-"))
		env.svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("merge messages are skipped", func(t *testing.T) {
		env := setupTestEnv(t)

		require.NoError(t, env.run("-m", "Merge branch 'main' into feature"))
		env.svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("not a conventional commit", func(t *testing.T) {
		env := setupTestEnv(t)

		err := env.run("-m", "added some stuff")
		assert.ErrorIs(t, err, domainErrors.ErrNotConventional)
	})

	t.Run("unknown type", func(t *testing.T) {
		env := setupTestEnv(t)

		err := env.run("-m", "feature: add computeTotal")
		assert.ErrorIs(t, err, domainErrors.ErrCommitTypeInvalid)
	})

	t.Run("no message", func(t *testing.T) {
		env := setupTestEnv(t)

		assert.ErrorIs(t, env.run(), domainErrors.ErrNotConventional)
	})

	t.Run("verifier error", func(t *testing.T) {
		env := setupTestEnv(t)
		env.svc.On("Verify", mock.Anything, good).Return(nil, domainErrors.ErrVerificationParse)

		err := env.run("-m", "feat: add computeTotal", "--json")
		assert.ErrorIs(t, err, domainErrors.ErrVerificationParse)
		assert.Contains(t, env.out.String(), `"error"`)
	})
}
