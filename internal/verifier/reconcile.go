package verifier

import (
	"slices"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/models"
)

// reconcile merges a model result into the rubric evaluation. Symbol sets
// come from the rubric, so the invariants of the rubric hold whatever the
// model answered.
func reconcile(model *models.VerificationResult, eval *evaluation, commit models.CandidateCommit, trunc truncation) *models.VerificationResult {
	rubric := eval.result
	text := commitText(commit)

	out := &models.VerificationResult{
		VerifiedSymbols:     slices.Clone(rubric.VerifiedSymbols),
		MissingSymbols:      slices.Clone(rubric.MissingSymbols),
		HallucinatedSymbols: slices.Clone(rubric.HallucinatedSymbols),
		Issues:              slices.Clone(rubric.Issues),
		DiffTruncated:       trunc.truncated,
	}

	// model hallucinations survive only when the commit really names them
	// and the diff really lacks them
	known := toSet(out.HallucinatedSymbols)
	var extra []string
	for _, name := range model.HallucinatedSymbols {
		if known[name] || eval.extractor.symbols[name] || eval.extractor.isExcluded(name) || !containsToken(text, name) {
			continue
		}
		known[name] = true
		extra = append(extra, name)
	}
	out.HallucinatedSymbols = append(out.HallucinatedSymbols, extra...)

	for _, name := range extra {
		issue := hallucinationIssue(name, trunc)
		if reported, ok := findIssueAbout(model.Issues, models.IssueHallucination, name); ok {
			issue.Description = reported.Description
			if reported.Evidence != "" {
				issue.Evidence = reported.Evidence
			}
		}
		out.Issues = append(out.Issues, issue)
	}

	hasRubricIssue := func(t models.IssueType) bool {
		for _, issue := range rubric.Issues {
			if issue.Type == t {
				return true
			}
		}
		return false
	}
	for _, issue := range model.Issues {
		switch issue.Type {
		case models.IssueHallucination:
			// covered by the symbol sets above
			continue
		case models.IssueOmission:
			if hasRubricIssue(models.IssueOmission) {
				continue
			}
			issue.BeyondTruncation = trunc.truncated
		case models.IssueInaccuracy:
			if hasRubricIssue(models.IssueInaccuracy) {
				continue
			}
		}
		if !containsIssue(out.Issues, issue) {
			out.Issues = append(out.Issues, issue)
		}
	}

	p := eval.penalties
	p.hallucinations = len(out.HallucinatedSymbols)
	out.FactualAccuracy = min(model.FactualAccuracy, p.score())
	out.FactualAccuracy = max(0, min(100, out.FactualAccuracy))
	if trunc.truncated {
		out.FactualAccuracy = min(out.FactualAccuracy, truncatedScoreCap)
	}
	out.HasCriticalIssues = isCritical(out)

	out.Recommendations = mergeText(rubric.Recommendations, model.Recommendations)
	out.Reasoning = mergeReasoning(model.Reasoning, rubric.Reasoning)
	return out
}

func findIssueAbout(issues []models.VerificationIssue, t models.IssueType, name string) (models.VerificationIssue, bool) {
	for _, issue := range issues {
		if issue.Type == t && (containsToken(issue.Description, name) || containsToken(issue.Evidence, name)) {
			return issue, true
		}
	}
	return models.VerificationIssue{}, false
}

func containsIssue(issues []models.VerificationIssue, issue models.VerificationIssue) bool {
	key := normalizeText(issue.Description)
	for _, existing := range issues {
		if existing.Type == issue.Type && normalizeText(existing.Description) == key {
			return true
		}
	}
	return false
}

// mergeText appends the entries of extra that are not already in base,
// ignoring case and surrounding space.
func mergeText(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool)
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			key := normalizeText(s)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func mergeReasoning(model, rubric string) string {
	model = strings.TrimSpace(model)
	switch {
	case model == "":
		return rubric
	case strings.Contains(normalizeText(model), normalizeText(rubric)):
		return model
	default:
		return model + "\n\n" + rubric
	}
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
