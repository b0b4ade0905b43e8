// Package verifier checks a candidate commit message against the diff it
// describes and scores its factual accuracy.
//
// The rubric engine is local and deterministic. The model engine asks an AI
// completer for the same judgement and reconciles the answer with the rubric.
package verifier

import (
	"context"
	"time"

	"github.com/thomas-vilte/commitformat/internal/ai"
	"github.com/thomas-vilte/commitformat/internal/analyzer"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
)

const (
	DefaultMaxDiffChars   = 8000
	DefaultMajorFileCount = 3
)

type Options struct {
	// MaxDiffChars is the diff budget of the model prompt, in characters.
	MaxDiffChars int
	// MajorFileCount is how many code files, by churn, hold major symbols.
	MajorFileCount int
	// IgnoreWords are extra words never treated as code references.
	IgnoreWords []string
	// Language selects the prompt language.
	Language string
}

type Verifier struct {
	completer ai.Completer
	opts      Options
	ignore    map[string]bool
}

// New creates a verifier. A nil completer selects the rubric engine.
func New(completer ai.Completer, opts Options) *Verifier {
	if opts.MaxDiffChars <= 0 {
		opts.MaxDiffChars = DefaultMaxDiffChars
	}
	if opts.MajorFileCount <= 0 {
		opts.MajorFileCount = DefaultMajorFileCount
	}
	if opts.Language == "" {
		opts.Language = "en"
	}

	ignore := make(map[string]bool, len(defaultIgnoreWords)+len(opts.IgnoreWords))
	for _, w := range defaultIgnoreWords {
		ignore[w] = true
	}
	for _, w := range opts.IgnoreWords {
		ignore[w] = true
	}

	return &Verifier{completer: completer, opts: opts, ignore: ignore}
}

// Engine names the engine Verify runs.
func (v *Verifier) Engine() string {
	if v.completer == nil {
		return models.EngineRubric
	}
	return ai.EngineName(v.completer)
}

// Verify scores commit against diffText. analysis may be nil, in which case
// the diff is analyzed here. Model failures are returned unchanged; there is
// no retry and no fallback to the rubric.
func (v *Verifier) Verify(ctx context.Context, commit models.CandidateCommit, diffText string, analysis *models.DiffAnalysis) (*models.VerificationResult, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	if analysis == nil {
		analysis = analyzer.Analyze(diffText)
	}

	promptDiff, cut, truncated := ai.TruncateDiff(diffText, v.opts.MaxDiffChars)
	trunc := truncation{diff: diffText, cut: cut, truncated: truncated, limit: v.opts.MaxDiffChars}

	log.Info("verifying commit",
		"engine", v.Engine(),
		"files_changed", analysis.Summary.FilesChanged,
		"symbols_count", len(analysis.ModifiedSymbols),
		"diff_truncated", truncated)

	eval := v.evaluate(commit, analysis, trunc)
	result := eval.result

	if v.completer != nil {
		prompt, err := v.buildPrompt(commit, promptDiff, analysis)
		if err != nil {
			return nil, err
		}
		resp, err := v.completer.Complete(ctx, prompt)
		if err != nil {
			log.Error("model verification failed", "error", err)
			return nil, err
		}
		modelResult, err := parseModelResponse(resp.Text)
		if err != nil {
			log.Warn("model verification response rejected", "error", err)
			return nil, err
		}
		result = reconcile(modelResult, eval, commit, trunc)
		result.Engine = ai.EngineName(v.completer)
	}

	log.Info("verification completed",
		"engine", result.Engine,
		"factual_accuracy", result.FactualAccuracy,
		"issues_count", len(result.Issues),
		"critical", result.HasCriticalIssues,
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}
