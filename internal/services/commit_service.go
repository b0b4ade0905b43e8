package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thomas-vilte/commitformat/internal/analyzer"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/generator"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ports"
)

type CommitServiceOptions struct {
	// StagedOnly limits the diff to the staging area.
	StagedOnly bool
	// HistoryCount is how many recent commit headers are shown to the
	// generator as a style reference.
	HistoryCount int
}

// CommitService runs the analyze, generate and verify pipeline over the
// changes of the working tree. Each call is independent.
type CommitService struct {
	git       ports.GitService
	generator ports.CommitGenerator
	verifier  ports.CommitVerifier
	usage     ports.UsageReporter
	opts      CommitServiceOptions
}

type CommitServiceOption func(*CommitService)

// WithGenerator enables Suggest. Without it Suggest returns ErrAIDisabled.
func WithGenerator(g ports.CommitGenerator) CommitServiceOption {
	return func(s *CommitService) { s.generator = g }
}

// WithUsage reports the token usage of AI calls in pipeline results.
func WithUsage(u ports.UsageReporter) CommitServiceOption {
	return func(s *CommitService) { s.usage = u }
}

func NewCommitService(git ports.GitService, verifier ports.CommitVerifier, opts CommitServiceOptions, options ...CommitServiceOption) *CommitService {
	s := &CommitService{git: git, verifier: verifier, opts: opts}
	for _, o := range options {
		o(s)
	}
	return s
}

// Analyze reads the changed files and the diff concurrently and analyzes the diff.
func (s *CommitService) Analyze(ctx context.Context) (*models.DiffAnalysis, string, error) {
	log := logger.FromContext(ctx)

	var files []string
	var diff string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		files, err = s.git.GetChangedFiles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		diff, err = s.git.GetDiff(gctx, s.opts.StagedOnly)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	if len(files) == 0 {
		return nil, "", domainErrors.ErrNoChanges
	}
	if strings.TrimSpace(diff) == "" {
		return nil, "", domainErrors.ErrNoDiff
	}

	analysis := analyzer.Analyze(diff)
	log.Debug("changes analyzed",
		"changed_files", len(files),
		"diff_length", len(diff),
		"pattern", analysis.PrimaryPattern().Type)
	return analysis, diff, nil
}

// Suggest generates a commit for the current changes and verifies it.
// feedback is the verification of a rejected previous suggestion, or nil.
// A verification failure does not fail the call: the result carries the
// commit and VerificationErr. Without a verifier the commit is returned unchecked.
func (s *CommitService) Suggest(ctx context.Context, feedback *models.VerificationResult) (*models.PipelineResult, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	if s.generator == nil {
		return nil, domainErrors.ErrAIDisabled
	}

	analysis, diff, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	commit, err := s.generator.Generate(ctx, generator.Request{
		Diff:     diff,
		Analysis: analysis,
		Feedback: feedback,
		History:  s.history(ctx),
	})
	if err != nil {
		return nil, err
	}

	result := &models.PipelineResult{
		Analysis:   analysis,
		Commit:     commit,
		DiffLength: len(diff),
	}

	if s.verifier != nil {
		verification, err := s.verifier.Verify(ctx, *commit, diff, analysis)
		if err != nil {
			log.Warn("verification unavailable", "error", err, "engine", s.verifier.Engine())
			result.VerificationErr = domainErrors.ErrVerificationUnavailable.WithError(err)
		} else {
			result.Verification = verification
		}
	}
	result.Usage = s.totalUsage()

	log.Info("suggestion pipeline completed",
		"header", commit.Header(),
		"verified", result.VerificationAvailable(),
		"duration_ms", time.Since(startTime).Milliseconds())
	return result, nil
}

// Verify checks a user-written commit against the current changes.
func (s *CommitService) Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error) {
	analysis, diff, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return s.VerifyDiff(ctx, commit, diff, analysis)
}

// VerifyDiff checks commit against an explicit diff. analysis may be nil.
func (s *CommitService) VerifyDiff(ctx context.Context, commit models.CandidateCommit, diff string, analysis *models.DiffAnalysis) (*models.PipelineResult, error) {
	if s.verifier == nil {
		return nil, domainErrors.ErrVerificationUnavailable.WithContext("reason", "verifier disabled")
	}
	if analysis == nil {
		analysis = analyzer.Analyze(diff)
	}
	verification, err := s.verifier.Verify(ctx, commit, diff, analysis)
	if err != nil {
		return nil, err
	}
	return &models.PipelineResult{
		Analysis:     analysis,
		Commit:       &commit,
		Verification: verification,
		DiffLength:   len(diff),
		Usage:        s.totalUsage(),
	}, nil
}

// history returns recent commit headers. It is best effort.
func (s *CommitService) history(ctx context.Context) []string {
	if s.opts.HistoryCount <= 0 {
		return nil
	}
	messages, err := s.git.GetRecentCommitMessages(ctx, s.opts.HistoryCount)
	if err != nil {
		logger.FromContext(ctx).Debug("recent commits unavailable", "error", err)
		return nil
	}
	headers := make([]string, 0, len(messages))
	for _, msg := range messages {
		header, _, _ := strings.Cut(msg, "\n")
		if header = strings.TrimSpace(header); header != "" {
			headers = append(headers, header)
		}
	}
	return headers
}

func (s *CommitService) totalUsage() *models.TokenUsage {
	if s.usage == nil {
		return nil
	}
	total, calls := s.usage.Total()
	if calls == 0 {
		return nil
	}
	return &total
}
