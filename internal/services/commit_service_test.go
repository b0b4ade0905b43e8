package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/generator"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/verifier"
)

const billingDiff = `diff --git a/src/billing.ts b/src/billing.ts
index 1111111..2222222 100644
--- a/src/billing.ts
+++ b/src/billing.ts
@@ -1,3 +1,7 @@
 import { Item } from "./item";
 
+export function computeTotal(items: Item[]): number {
+  return items.reduce((sum, item) => sum + item.price, 0);
+}
+
 export const CURRENCY = "USD";
`

func gitWithChanges(diff string) *MockGitService {
	git := &MockGitService{}
	git.On("GetChangedFiles", mock.Anything).Return([]string{"src/billing.ts"}, nil)
	git.On("GetDiff", mock.Anything, false).Return(diff, nil)
	return git
}

func TestCommitService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("analyzes the diff", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{})

		analysis, diff, err := svc.Analyze(ctx)
		require.NoError(t, err)
		assert.Equal(t, billingDiff, diff)
		assert.Equal(t, 1, analysis.Summary.FilesChanged)
		assert.True(t, analysis.HasSymbol("computeTotal"))
		git.AssertExpectations(t)
	})

	t.Run("staged only", func(t *testing.T) {
		git := &MockGitService{}
		git.On("GetChangedFiles", mock.Anything).Return([]string{"src/billing.ts"}, nil)
		git.On("GetDiff", mock.Anything, true).Return(billingDiff, nil)
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{StagedOnly: true})

		_, _, err := svc.Analyze(ctx)
		require.NoError(t, err)
		git.AssertExpectations(t)
	})

	t.Run("no changes", func(t *testing.T) {
		git := &MockGitService{}
		git.On("GetChangedFiles", mock.Anything).Return([]string{}, nil)
		git.On("GetDiff", mock.Anything, false).Return("", nil)
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{})

		_, _, err := svc.Analyze(ctx)
		assert.ErrorIs(t, err, domainErrors.ErrNoChanges)
	})

	t.Run("empty diff", func(t *testing.T) {
		git := gitWithChanges("  \n")
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{})

		_, _, err := svc.Analyze(ctx)
		assert.ErrorIs(t, err, domainErrors.ErrNoDiff)
	})

	t.Run("git failure", func(t *testing.T) {
		git := &MockGitService{}
		git.On("GetChangedFiles", mock.Anything).Return(nil, domainErrors.ErrGetChangedFiles)
		git.On("GetDiff", mock.Anything, false).Return(billingDiff, nil).Maybe()
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{})

		_, _, err := svc.Analyze(ctx)
		assert.ErrorIs(t, err, domainErrors.ErrGetChangedFiles)
	})
}

func TestCommitService_Suggest(t *testing.T) {
	ctx := context.Background()
	commit := &models.CandidateCommit{Type: "feat", Subject: "add computeTotal to billing"}

	t.Run("generate then verify", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		git.On("GetRecentCommitMessages", mock.Anything, 5).
			Return([]string{"fix: handle empty carts\n\nbody", "chore: bump deps"}, nil)

		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req generator.Request) bool {
			return req.Diff == billingDiff && req.Analysis != nil && req.Feedback == nil &&
				assert.ObjectsAreEqual([]string{"fix: handle empty carts", "chore: bump deps"}, req.History)
		})).Return(commit, nil)

		usage := &MockUsageReporter{}
		usage.On("Total").Return(models.TokenUsage{InputTokens: 120, OutputTokens: 30, TotalTokens: 150}, 2)

		svc := NewCommitService(git, verifier.New(nil, verifier.Options{}),
			CommitServiceOptions{HistoryCount: 5}, WithGenerator(gen), WithUsage(usage))

		result, err := svc.Suggest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, commit, result.Commit)
		require.True(t, result.VerificationAvailable())
		assert.Equal(t, 100, result.Verification.FactualAccuracy)
		assert.Equal(t, len(billingDiff), result.DiffLength)
		require.NotNil(t, result.Usage)
		assert.Equal(t, 150, result.Usage.TotalTokens)
		gen.AssertExpectations(t)
	})

	t.Run("feedback is passed to the generator", func(t *testing.T) {
		feedback := &models.VerificationResult{HallucinatedSymbols: []string{"UserService"}}
		git := gitWithChanges(billingDiff)
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req generator.Request) bool {
			return req.Feedback == feedback && req.History == nil
		})).Return(commit, nil)

		svc := NewCommitService(git, verifier.New(nil, verifier.Options{}), CommitServiceOptions{}, WithGenerator(gen))
		_, err := svc.Suggest(ctx, feedback)
		require.NoError(t, err)
		gen.AssertExpectations(t)
		git.AssertNotCalled(t, "GetRecentCommitMessages", mock.Anything, mock.Anything)
	})

	t.Run("verification failure is not fatal", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return(commit, nil)
		ver := &MockVerifier{}
		ver.On("Verify", mock.Anything, *commit, billingDiff, mock.Anything).Return(nil, domainErrors.ErrVerificationParse)
		ver.On("Engine").Return("gemini/gemini-2.5-flash")

		svc := NewCommitService(git, ver, CommitServiceOptions{}, WithGenerator(gen))
		result, err := svc.Suggest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, commit, result.Commit)
		assert.False(t, result.VerificationAvailable())
		assert.ErrorIs(t, result.VerificationErr, domainErrors.ErrVerificationUnavailable)
		assert.Nil(t, result.Usage)
	})

	t.Run("history failure is ignored", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		git.On("GetRecentCommitMessages", mock.Anything, 3).Return(nil, domainErrors.ErrGetRecentCommits)
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req generator.Request) bool {
			return len(req.History) == 0
		})).Return(commit, nil)

		svc := NewCommitService(git, verifier.New(nil, verifier.Options{}), CommitServiceOptions{HistoryCount: 3}, WithGenerator(gen))
		_, err := svc.Suggest(ctx, nil)
		require.NoError(t, err)
	})

	t.Run("generation failure is returned", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return(nil, domainErrors.ErrInvalidAIOutput)
		ver := &MockVerifier{}

		svc := NewCommitService(git, ver, CommitServiceOptions{}, WithGenerator(gen))
		_, err := svc.Suggest(ctx, nil)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidAIOutput)
		ver.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("verifier disabled", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return(commit, nil)

		svc := NewCommitService(git, nil, CommitServiceOptions{}, WithGenerator(gen))
		result, err := svc.Suggest(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, commit, result.Commit)
		assert.Nil(t, result.Verification)
		assert.NoError(t, result.VerificationErr)

		_, err = svc.VerifyDiff(ctx, *commit, billingDiff, nil)
		assert.ErrorIs(t, err, domainErrors.ErrVerificationUnavailable)
	})

	t.Run("AI disabled", func(t *testing.T) {
		git := &MockGitService{}
		svc := NewCommitService(git, &MockVerifier{}, CommitServiceOptions{})
		_, err := svc.Suggest(ctx, nil)
		assert.ErrorIs(t, err, domainErrors.ErrAIDisabled)
		git.AssertNotCalled(t, "GetDiff", mock.Anything, mock.Anything)
	})
}

func TestCommitService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("hallucinated component", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		svc := NewCommitService(git, verifier.New(nil, verifier.Options{}), CommitServiceOptions{})

		result, err := svc.Verify(ctx, models.CandidateCommit{Type: "feat", Subject: "add UserService"})
		require.NoError(t, err)
		assert.True(t, result.Verification.HasCriticalIssues)
		assert.Equal(t, []string{"UserService"}, result.Verification.HallucinatedSymbols)
		assert.Equal(t, "add UserService", result.Commit.Subject)
	})

	t.Run("verifier error is returned", func(t *testing.T) {
		git := gitWithChanges(billingDiff)
		ver := &MockVerifier{}
		ver.On("Verify", mock.Anything, mock.Anything, billingDiff, mock.Anything).Return(nil, errors.New("quota"))

		svc := NewCommitService(git, ver, CommitServiceOptions{})
		_, err := svc.Verify(ctx, models.CandidateCommit{Type: "feat", Subject: "add computeTotal"})
		assert.EqualError(t, err, "quota")
	})

	t.Run("explicit diff", func(t *testing.T) {
		svc := NewCommitService(&MockGitService{}, verifier.New(nil, verifier.Options{}), CommitServiceOptions{})
		result, err := svc.VerifyDiff(ctx, models.CandidateCommit{Type: "feat", Subject: "add computeTotal"}, billingDiff, nil)
		require.NoError(t, err)
		assert.Equal(t, 100, result.Verification.FactualAccuracy)
		assert.NotNil(t, result.Analysis)
	})
}
