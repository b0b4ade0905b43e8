// Package generator asks an AI completer for a conventional commit message
// describing a diff.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/thomas-vilte/commitformat/internal/ai"
	"github.com/thomas-vilte/commitformat/internal/analyzer"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
)

const (
	DefaultMaxDiffChars = 8000
	// promptSymbolLimit is how many modified symbols are listed in the prompt.
	promptSymbolLimit = 15
	// promptFileLimit is how many changed paths are listed in the prompt.
	promptFileLimit = 30
)

type Options struct {
	Rules        models.CommitRules
	MaxDiffChars int
	Language     string
}

// Request is one generation. Feedback carries the verification of a rejected
// suggestion so the model can correct it. History holds recent commit
// headers used as a style reference.
type Request struct {
	Diff     string
	Analysis *models.DiffAnalysis
	Feedback *models.VerificationResult
	History  []string
}

type Generator struct {
	completer ai.Completer
	opts      Options
}

func New(completer ai.Completer, opts Options) *Generator {
	if opts.MaxDiffChars <= 0 {
		opts.MaxDiffChars = DefaultMaxDiffChars
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if len(opts.Rules.Types) == 0 {
		opts.Rules.Types = models.DefaultCommitTypes()
	}
	return &Generator{completer: completer, opts: opts}
}

// Generate returns a candidate commit for req.Diff. Output that does not
// honor the JSON contract or the commit rules yields ErrInvalidAIOutput.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.CandidateCommit, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	if strings.TrimSpace(req.Diff) == "" {
		return nil, domainErrors.ErrNoDiff
	}
	analysis := req.Analysis
	if analysis == nil {
		analysis = analyzer.Analyze(req.Diff)
	}

	prompt, err := g.buildPrompt(req, analysis)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "Failed to build the generation prompt", err)
	}

	log.Info("generating commit message",
		"provider", g.completer.ProviderName(),
		"model", g.completer.ModelName(),
		"files_changed", analysis.Summary.FilesChanged,
		"symbols_count", len(analysis.ModifiedSymbols),
		"regeneration", req.Feedback != nil)

	resp, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	commit, err := g.parse(resp.Text)
	if err != nil {
		log.Warn("generated commit rejected", "error", err)
		return nil, err
	}

	log.Info("commit message generated",
		"header", commit.Header(),
		"duration_ms", time.Since(startTime).Milliseconds())

	return commit, nil
}

func (g *Generator) buildPrompt(req Request, analysis *models.DiffAnalysis) (ai.Prompt, error) {
	diff, _, _ := ai.TruncateDiff(req.Diff, g.opts.MaxDiffChars)

	data := ai.CommitPromptData{
		Scopes:           g.opts.Rules.Scopes,
		MinSubjectLength: g.opts.Rules.MinSubjectLength,
		MaxSubjectLength: g.opts.Rules.MaxSubjectLength,
		Diff:             diff,
		FilesChanged:     analysis.Summary.FilesChanged,
		Pattern:          string(analysis.PrimaryPattern().Type),
		History:          req.History,
		Feedback:         feedbackLines(req.Feedback),
	}
	if data.MaxSubjectLength == 0 {
		data.MaxSubjectLength = 100
	}
	for _, t := range g.opts.Rules.Types {
		data.Types = append(data.Types, ai.TypeLine{Value: t.Value, Description: t.Description})
	}
	for i, f := range analysis.Files {
		if i == promptFileLimit {
			data.Files = append(data.Files, fmt.Sprintf("... %d more", len(analysis.Files)-promptFileLimit))
			break
		}
		data.Files = append(data.Files, fmt.Sprintf("%s (%s, +%d -%d)", f.Path, f.Status, f.Insertions, f.Deletions))
	}
	for i, sym := range analysis.ModifiedSymbols {
		if i == promptSymbolLimit {
			data.MoreSymbols = len(analysis.ModifiedSymbols) - promptSymbolLimit
			break
		}
		data.Symbols = append(data.Symbols, ai.SymbolLine{Name: sym.Name, Type: string(sym.Type)})
	}

	user, err := ai.RenderPrompt("commit", ai.GetCommitPromptTemplate(g.opts.Language), data)
	if err != nil {
		return ai.Prompt{}, err
	}
	return ai.Prompt{
		System: ai.GetCommitSystemPrompt(g.opts.Language),
		User:   user,
		JSON:   true,
	}, nil
}

// feedbackLines turns a rejected verification into correction hints.
func feedbackLines(v *models.VerificationResult) []string {
	if v == nil {
		return nil
	}
	var lines []string
	for _, name := range v.HallucinatedSymbols {
		lines = append(lines, fmt.Sprintf("Do not mention %s; it is not in the diff.", name))
	}
	if len(v.MissingSymbols) > 0 {
		lines = append(lines, "Mention: "+strings.Join(v.MissingSymbols, ", ")+".")
	}
	for _, issue := range v.Issues {
		if issue.Type == models.IssueInaccuracy {
			lines = append(lines, issue.Description)
		}
	}
	return append(lines, v.Recommendations...)
}

// commitResponse is the JSON contract of the generation prompt.
type commitResponse struct {
	Type                string `json:"type" validate:"required"`
	Scope               string `json:"scope"`
	Subject             string `json:"subject" validate:"required"`
	Body                string `json:"body"`
	Breaking            bool   `json:"breaking"`
	BreakingDescription string `json:"breakingDescription"`
}

var validate = validator.New()

func (g *Generator) parse(text string) (*models.CandidateCommit, error) {
	raw := ai.ExtractJSON(text)

	var resp commitResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, domainErrors.ErrInvalidAIOutput.WithError(err).WithContext("response", ai.Preview(text, ai.PreviewLimit))
	}
	resp.Type = strings.ToLower(strings.TrimSpace(resp.Type))
	resp.Subject = strings.TrimSpace(resp.Subject)
	if err := validate.Struct(&resp); err != nil {
		return nil, domainErrors.ErrInvalidAIOutput.WithError(err).WithContext("response", ai.Preview(text, ai.PreviewLimit))
	}

	commit := normalize(resp)
	if err := commit.Validate(g.opts.Rules); err != nil {
		return nil, domainErrors.ErrInvalidAIOutput.WithError(err).WithContext("header", commit.Header())
	}
	return commit, nil
}

// normalize applies the conventions models tend to break: no trailing period,
// no type prefix repeated in the subject, no dangling breaking description.
func normalize(resp commitResponse) *models.CandidateCommit {
	c := &models.CandidateCommit{
		Type:     resp.Type,
		Scope:    strings.TrimSpace(resp.Scope),
		Subject:  resp.Subject,
		Body:     strings.TrimSpace(resp.Body),
		Breaking: resp.Breaking,
	}

	if parsed, err := models.ParseConventionalCommit(c.Subject); err == nil && parsed.Type == c.Type {
		c.Subject = parsed.Subject
		if c.Scope == "" {
			c.Scope = parsed.Scope
		}
	}
	c.Subject = strings.TrimRight(c.Subject, ". ")

	if len([]rune(c.Body)) < models.MinBodyLength {
		c.Body = ""
	}
	if c.Breaking {
		c.BreakingDescription = strings.TrimSpace(resp.BreakingDescription)
	}
	return c
}
