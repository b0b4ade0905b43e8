package models

type (
	IssueType string

	Severity string
)

const (
	IssueHallucination IssueType = "hallucination"
	IssueOmission      IssueType = "omission"
	IssueInaccuracy    IssueType = "inaccuracy"
)

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// EngineRubric names the deterministic local verification engine.
const EngineRubric = "rubric"

type (
	// VerificationIssue is one discrepancy between a commit message and its diff.
	VerificationIssue struct {
		Type        IssueType `json:"type" yaml:"type"`
		Severity    Severity  `json:"severity" yaml:"severity"`
		Description string    `json:"description" yaml:"description"`
		Evidence    string    `json:"evidence" yaml:"evidence"`
		// BeyondTruncation marks an issue that depends on diff content the
		// model never saw. Such issues are informational.
		BeyondTruncation bool `json:"beyondTruncation,omitempty" yaml:"beyondTruncation,omitempty"`
	}

	// VerificationResult scores the factual accuracy of a candidate commit.
	VerificationResult struct {
		FactualAccuracy     int                 `json:"factualAccuracy" yaml:"factualAccuracy"`
		HasCriticalIssues   bool                `json:"hasCriticalIssues" yaml:"hasCriticalIssues"`
		Issues              []VerificationIssue `json:"issues" yaml:"issues"`
		VerifiedSymbols     []string            `json:"verifiedSymbols" yaml:"verifiedSymbols"`
		MissingSymbols      []string            `json:"missingSymbols" yaml:"missingSymbols"`
		HallucinatedSymbols []string            `json:"hallucinatedSymbols" yaml:"hallucinatedSymbols"`
		Recommendations     []string            `json:"recommendations" yaml:"recommendations"`
		Reasoning           string              `json:"reasoning" yaml:"reasoning"`
		DiffTruncated       bool                `json:"diffTruncated,omitempty" yaml:"diffTruncated,omitempty"`
		Engine              string              `json:"engine,omitempty" yaml:"engine,omitempty"`
	}
)

// IssuesOf returns the issues of the given type, in order.
func (r *VerificationResult) IssuesOf(t IssueType) []VerificationIssue {
	if r == nil {
		return nil
	}
	var out []VerificationIssue
	for _, issue := range r.Issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}

// Blocking reports whether the result must stop automatic acceptance.
func (r *VerificationResult) Blocking() bool {
	return r != nil && r.HasCriticalIssues
}
