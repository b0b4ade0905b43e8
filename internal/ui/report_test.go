package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomas-vilte/commitformat/internal/models"
)

func TestPrintVerificationReport(t *testing.T) {
	t.Run("critical result", func(t *testing.T) {
		var out bytes.Buffer
		v := &models.VerificationResult{
			FactualAccuracy:   55,
			HasCriticalIssues: true,
			DiffTruncated:     true,
			Issues: []models.VerificationIssue{{
				Type:             models.IssueHallucination,
				Severity:         models.SeverityCritical,
				Description:      "UserService is not in the diff",
				Evidence:         "src/billing.ts only adds computeTotal",
				BeyondTruncation: true,
			}},
			VerifiedSymbols:     []string{"computeTotal"},
			HallucinatedSymbols: []string{"UserService"},
			Recommendations:     []string{"Drop the UserService claim"},
			Reasoning:           "One claim has no support.",
			Engine:              models.EngineRubric,
		}

		PrintVerificationReport(&out, v, newTranslations(t))

		text := out.String()
		for _, want := range []string{
			"55/100",
			"(rubric)",
			"Critical issues found",
			"truncated",
			"[hallucination/critical] UserService is not in the diff",
			"(may be beyond the truncated diff)",
			"src/billing.ts only adds computeTotal",
			"✓ computeTotal",
			"✗ UserService",
			"Drop the UserService claim",
			"One claim has no support.",
		} {
			assert.Contains(t, text, want)
		}
	})

	t.Run("clean result omits empty sections", func(t *testing.T) {
		var out bytes.Buffer

		PrintVerificationReport(&out, &models.VerificationResult{FactualAccuracy: 100, Engine: "model"}, newTranslations(t))

		assert.Contains(t, out.String(), "100/100")
		assert.NotContains(t, out.String(), "Issues")
		assert.NotContains(t, out.String(), "Recommendations")
	})

	t.Run("nil result", func(t *testing.T) {
		var out bytes.Buffer
		PrintVerificationReport(&out, nil, newTranslations(t))
		assert.Empty(t, out.String())
	})
}

func TestPrintVerificationUnavailable(t *testing.T) {
	var out bytes.Buffer

	PrintVerificationUnavailable(&out, errors.New("provider timeout"), newTranslations(t))

	assert.Contains(t, out.String(), "Verification unavailable")
	assert.Contains(t, out.String(), "provider timeout")
}

func TestPrintCommitStats(t *testing.T) {
	t.Run("breakdown sorted by count", func(t *testing.T) {
		var out bytes.Buffer
		stats := models.ComputeCommitStats([]string{
			"fix: a bug",
			"feat: one",
			"feat: two",
			"docs: readme",
			"feat: three",
			"wip",
		})

		PrintCommitStats(&out, stats, newTranslations(t))

		text := out.String()
		assert.Contains(t, text, "83.3%")
		feat := strings.Index(text, "feat")
		docs := strings.Index(text, "docs")
		assert.True(t, feat >= 0 && docs > feat, "feat should be listed before docs")
	})

	t.Run("no commits", func(t *testing.T) {
		var out bytes.Buffer

		PrintCommitStats(&out, models.ComputeCommitStats(nil), newTranslations(t))

		assert.Contains(t, out.String(), "No commits found")
	})
}

func TestPrintAnalysis(t *testing.T) {
	var out bytes.Buffer
	a := &models.DiffAnalysis{
		Summary:         models.DiffSummary{FilesChanged: 2, Insertions: 12, Deletions: 3},
		ChangePatterns:  []models.ChangePattern{{Type: "feature", Confidence: 0.8}},
		ModifiedSymbols: []models.ModifiedSymbol{{Name: "computeTotal", Type: "function", File: "src/billing.ts"}},
		Files: []models.FileChange{
			{Path: "src/billing.ts", Status: models.FileModified, Insertions: 10, Deletions: 3},
			{Path: "README.md", Status: models.FileModified, Insertions: 2},
		},
	}

	PrintAnalysis(&out, a, newTranslations(t))

	text := out.String()
	assert.Contains(t, text, "computeTotal")
	assert.Contains(t, text, "80%")
	assert.Contains(t, text, "billing.ts")
}
