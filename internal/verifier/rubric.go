package verifier

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/models"
)

const (
	hallucinationPenalty = 30
	missingPenalty       = 10
	missingPenaltyCap    = 25
	majorInaccuracy      = 20
	minorInaccuracy      = 5

	// criticalThreshold is the score under which a result blocks acceptance.
	criticalThreshold = 70
	// truncatedScoreCap keeps a truncated verification from claiming full confidence.
	truncatedScoreCap = 99
	// adjacentMargin is how close the declared category must score to the
	// primary pattern for a mismatch to count as minor.
	adjacentMargin = 0.15
)

// typeCategory maps commit types onto change-pattern labels. Types absent
// from the map (revert, custom types) are not checked.
var typeCategory = map[string]models.ChangeType{
	"feat":     models.ChangeFeature,
	"fix":      models.ChangeFix,
	"refactor": models.ChangeRefactor,
	"perf":     models.ChangeRefactor,
	"style":    models.ChangeRefactor,
	"docs":     models.ChangeDocs,
	"test":     models.ChangeTest,
	"build":    models.ChangeChore,
	"ci":       models.ChangeChore,
	"chore":    models.ChangeChore,
}

// suggestedType is the commit type recommended for each pattern.
var suggestedType = map[models.ChangeType]string{
	models.ChangeFeature:  "feat",
	models.ChangeFix:      "fix",
	models.ChangeRefactor: "refactor",
	models.ChangeDocs:     "docs",
	models.ChangeTest:     "test",
	models.ChangeChore:    "chore",
}

type categoryPair [2]models.ChangeType

// adjacentCategories are mismatches that are easy to argue either way.
var adjacentCategories = map[categoryPair]bool{
	{models.ChangeFix, models.ChangeRefactor}:   true,
	{models.ChangeChore, models.ChangeDocs}:     true,
	{models.ChangeChore, models.ChangeTest}:     true,
	{models.ChangeChore, models.ChangeRefactor}: true,
}

func isAdjacent(a, b models.ChangeType) bool {
	return adjacentCategories[categoryPair{a, b}] || adjacentCategories[categoryPair{b, a}]
}

// truncation records where the model prompt cut the diff.
type truncation struct {
	diff      string
	cut       int
	truncated bool
	limit     int
}

// pastCut reports whether name only shows up in the part of the diff the
// model did not see.
func (t truncation) pastCut(name string) bool {
	if !t.truncated {
		return false
	}
	i := tokenIndex(t.diff, name)
	return i >= 0 && i >= t.cut
}

// evaluation is the rubric outcome plus what reconciliation needs to reuse.
type evaluation struct {
	result    *models.VerificationResult
	extractor *entityExtractor
	refs      *referenceSet
	penalties penalties
}

type penalties struct {
	hallucinations int
	missing        int
	major          int
	minor          int
}

func (p penalties) score() int {
	score := 100 -
		hallucinationPenalty*p.hallucinations -
		min(missingPenaltyCap, missingPenalty*p.missing) -
		majorInaccuracy*p.major -
		minorInaccuracy*p.minor
	return max(score, 0)
}

// commitText is the prose the entity check reads. The scope is a component
// label and is left out.
func commitText(c models.CandidateCommit) string {
	parts := []string{c.Subject}
	if c.Body != "" {
		parts = append(parts, c.Body)
	}
	if c.BreakingDescription != "" {
		parts = append(parts, c.BreakingDescription)
	}
	return strings.Join(parts, "\n")
}

// evaluate runs the deterministic rubric.
func (v *Verifier) evaluate(commit models.CandidateCommit, analysis *models.DiffAnalysis, trunc truncation) *evaluation {
	extractor := newEntityExtractor(analysis, v.ignore)
	refs := extractor.extract(commitText(commit))

	result := &models.VerificationResult{
		Issues:              []models.VerificationIssue{},
		VerifiedSymbols:     []string{},
		MissingSymbols:      []string{},
		HallucinatedSymbols: []string{},
		Recommendations:     []string{},
		DiffTruncated:       trunc.truncated,
		Engine:              models.EngineRubric,
	}

	for _, name := range refs.names {
		if extractor.symbols[name] {
			result.VerifiedSymbols = append(result.VerifiedSymbols, name)
		} else {
			result.HallucinatedSymbols = append(result.HallucinatedSymbols, name)
		}
	}

	verified := toSet(result.VerifiedSymbols)
	majors := majorSymbols(analysis, v.opts.MajorFileCount)
	for _, sym := range majors {
		if !verified[sym.Name] {
			result.MissingSymbols = append(result.MissingSymbols, sym.Name)
		}
	}

	var p penalties
	for _, name := range result.HallucinatedSymbols {
		result.Issues = append(result.Issues, hallucinationIssue(name, trunc))
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Remove the reference to %s; it is not among the symbols changed by the diff.", name))
		p.hallucinations++
	}

	if len(result.MissingSymbols) > 0 {
		result.Issues = append(result.Issues, omissionIssue(result.MissingSymbols, majors, trunc))
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Mention the main changed symbols: %s.", strings.Join(result.MissingSymbols, ", ")))
		p.missing = len(result.MissingSymbols)
	}

	if issue, ok := checkType(commit.Type, analysis); ok {
		result.Issues = append(result.Issues, issue)
		primary := analysis.PrimaryPattern().Type
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("Use the %q type; the diff reads as a %s change.", suggestedType[primary], primary))
		if issue.Severity == models.SeverityMajor {
			p.major++
		} else {
			p.minor++
		}
	}

	result.FactualAccuracy = p.score()
	if trunc.truncated {
		result.FactualAccuracy = min(result.FactualAccuracy, truncatedScoreCap)
	}
	result.HasCriticalIssues = isCritical(result)
	result.Reasoning = rubricReasoning(result, refs, analysis, trunc)

	return &evaluation{result: result, extractor: extractor, refs: refs, penalties: p}
}

func hallucinationIssue(name string, trunc truncation) models.VerificationIssue {
	return models.VerificationIssue{
		Type:             models.IssueHallucination,
		Severity:         models.SeverityCritical,
		Description:      fmt.Sprintf("The commit mentions %s, which the diff does not change.", name),
		Evidence:         fmt.Sprintf("%s is not among the modified symbols.", name),
		BeyondTruncation: trunc.pastCut(name),
	}
}

func omissionIssue(missing []string, majors []models.ModifiedSymbol, trunc truncation) models.VerificationIssue {
	files := make(map[string]string, len(majors))
	for _, sym := range majors {
		if _, ok := files[sym.Name]; !ok {
			files[sym.Name] = sym.File
		}
	}

	evidence := make([]string, 0, len(missing))
	beyond := trunc.truncated
	for _, name := range missing {
		evidence = append(evidence, fmt.Sprintf("%s (%s)", name, files[name]))
		if !trunc.pastCut(name) {
			beyond = false
		}
	}

	return models.VerificationIssue{
		Type:             models.IssueOmission,
		Severity:         models.SeverityMajor,
		Description:      fmt.Sprintf("The commit omits %d major symbol(s) of the diff.", len(missing)),
		Evidence:         strings.Join(evidence, ", "),
		BeyondTruncation: beyond,
	}
}

// checkType compares the declared type with the primary change pattern.
func checkType(commitType string, analysis *models.DiffAnalysis) (models.VerificationIssue, bool) {
	declared, ok := typeCategory[strings.ToLower(commitType)]
	if !ok {
		return models.VerificationIssue{}, false
	}
	primary := analysis.PrimaryPattern()
	if primary.Type == models.ChangeUnknown || primary.Type == declared {
		return models.VerificationIssue{}, false
	}

	severity := models.SeverityMajor
	declaredScore := analysis.PatternScore(declared)
	if isAdjacent(declared, primary.Type) ||
		(declaredScore > 0 && primary.Confidence-declaredScore <= adjacentMargin+1e-9) {
		severity = models.SeverityMinor
	}

	return models.VerificationIssue{
		Type:        models.IssueInaccuracy,
		Severity:    severity,
		Description: fmt.Sprintf("The commit is typed %q but the diff looks like a %s change.", commitType, primary.Type),
		Evidence: fmt.Sprintf("Detected pattern %s (confidence %.2f); %s scores %.2f.",
			primary.Type, primary.Confidence, declared, declaredScore),
	}, true
}

// majorSymbols are the symbols a commit is expected to mention: those of the
// top-N code files by churn, plus newly added public symbols of any code file.
func majorSymbols(analysis *models.DiffAnalysis, topN int) []models.ModifiedSymbol {
	if analysis == nil {
		return nil
	}

	var code []models.FileChange
	for _, f := range analysis.Files {
		if f.Kind == models.KindCode {
			code = append(code, f)
		}
	}
	sort.SliceStable(code, func(i, j int) bool { return code[i].Churn() > code[j].Churn() })

	top := make(map[string]bool)
	for i := 0; i < len(code) && i < topN; i++ {
		top[code[i].Path] = true
	}

	var out []models.ModifiedSymbol
	seen := make(map[string]bool)
	for _, sym := range analysis.ModifiedSymbols {
		if seen[sym.Name] {
			continue
		}
		f, ok := analysis.File(sym.File)
		if !ok || f.Kind != models.KindCode {
			continue
		}
		if top[sym.File] || (sym.Change == models.SymbolAdded && sym.Public) {
			seen[sym.Name] = true
			out = append(out, sym)
		}
	}
	return out
}

func isCritical(r *models.VerificationResult) bool {
	if len(r.HallucinatedSymbols) > 0 || r.FactualAccuracy < criticalThreshold {
		return true
	}
	for _, issue := range r.Issues {
		if issue.Severity == models.SeverityCritical {
			return true
		}
	}
	return false
}

func rubricReasoning(r *models.VerificationResult, refs *referenceSet, analysis *models.DiffAnalysis, trunc truncation) string {
	primary := analysis.PrimaryPattern()
	var sb strings.Builder
	fmt.Fprintf(&sb, "The commit references %d code symbol(s): %d verified, %d not in the diff. ",
		len(refs.names), len(r.VerifiedSymbols), len(r.HallucinatedSymbols))
	fmt.Fprintf(&sb, "%d major symbol(s) are not mentioned. ", len(r.MissingSymbols))
	fmt.Fprintf(&sb, "Detected pattern: %s (%.2f).", primary.Type, primary.Confidence)
	if trunc.truncated {
		sb.WriteString(" ")
		sb.WriteString(truncationNote(trunc))
	}
	return sb.String()
}

func truncationNote(trunc truncation) string {
	return fmt.Sprintf("The diff exceeds %d characters and was truncated for the model at byte %d of %d; "+
		"claims about later content are not fully verified.", trunc.limit, trunc.cut, len(trunc.diff))
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// round keeps model scores on the integer scale of the rubric.
func round(f float64) int {
	return int(math.Round(f))
}
