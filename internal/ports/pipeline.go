package ports

import (
	"context"

	"github.com/thomas-vilte/commitformat/internal/generator"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// CommitGenerator writes a candidate commit message for a diff.
type CommitGenerator interface {
	Generate(ctx context.Context, req generator.Request) (*models.CandidateCommit, error)
}

// CommitVerifier scores a candidate commit against its diff.
type CommitVerifier interface {
	Verify(ctx context.Context, commit models.CandidateCommit, diffText string, analysis *models.DiffAnalysis) (*models.VerificationResult, error)
	// Engine names the engine results will carry, e.g. "rubric".
	Engine() string
}

// UsageReporter exposes the token usage accumulated by AI calls.
type UsageReporter interface {
	Total() (models.TokenUsage, int)
}
