package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/commitformat/internal/errors"
)

const (
	MinBodyLength        = 10
	breakingFooterPrefix = "BREAKING CHANGE:"
)

var conventionalHeaderRegex = regexp.MustCompile(`^([a-zA-Z]+)(?:\(([^()]+)\))?(!)?: (.+)$`)

type (
	// CommitType is one selectable conventional-commit type.
	CommitType struct {
		Value       string `json:"value" yaml:"value" mapstructure:"value"`
		Name        string `json:"name" yaml:"name" mapstructure:"name"`
		Description string `json:"description" yaml:"description" mapstructure:"description"`
	}

	// CommitRules are the constraints a commit message must satisfy.
	CommitRules struct {
		Types             []CommitType
		Scopes            []string
		AllowCustomScopes bool
		MinSubjectLength  int
		MaxSubjectLength  int
	}

	// CandidateCommit is a commit message before it reaches git, either typed
	// by the user or returned by the generator.
	CandidateCommit struct {
		Type                string `json:"type" yaml:"type"`
		Scope               string `json:"scope,omitempty" yaml:"scope,omitempty"`
		Subject             string `json:"subject" yaml:"subject"`
		Body                string `json:"body,omitempty" yaml:"body,omitempty"`
		Breaking            bool   `json:"breaking,omitempty" yaml:"breaking,omitempty"`
		BreakingDescription string `json:"breakingDescription,omitempty" yaml:"breakingDescription,omitempty"`
	}
)

// DefaultCommitTypes are the types offered when the configuration has none.
func DefaultCommitTypes() []CommitType {
	return []CommitType{
		{Value: "feat", Name: "feat:     ✨ New feature", Description: "A new feature"},
		{Value: "fix", Name: "fix:      🐛 Bug fix", Description: "A bug fix"},
		{Value: "docs", Name: "docs:     📝 Documentation", Description: "Documentation only changes"},
		{Value: "style", Name: "style:    💄 Style", Description: "Changes that do not affect the meaning of the code (white-space, formatting, etc.)"},
		{Value: "refactor", Name: "refactor: ♻️  Refactoring", Description: "A code change that neither fixes a bug nor adds a feature"},
		{Value: "perf", Name: "perf:     ⚡️ Performance", Description: "A code change that improves performance"},
		{Value: "test", Name: "test:     ✅ Tests", Description: "Adding or correcting tests"},
		{Value: "build", Name: "build:    📦 Build", Description: "Changes that affect the build system or external dependencies"},
		{Value: "ci", Name: "ci:       👷 CI", Description: "Changes to CI configuration files and scripts"},
		{Value: "chore", Name: "chore:    🔧 Chore", Description: "Other changes that don't modify src or test files"},
		{Value: "revert", Name: "revert:   ⏪ Revert", Description: "Reverts a previous commit"},
	}
}

// Header returns the first line: type(scope)!: subject.
func (c CandidateCommit) Header() string {
	var sb strings.Builder
	sb.WriteString(c.Type)
	if c.Scope != "" {
		sb.WriteString("(" + c.Scope + ")")
	}
	if c.Breaking {
		sb.WriteString("!")
	}
	sb.WriteString(": ")
	sb.WriteString(c.Subject)
	return sb.String()
}

// Format renders the full conventional commit message.
func (c CandidateCommit) Format() string {
	msg := c.Header()

	if body := strings.TrimSpace(c.Body); body != "" {
		msg += "\n\n" + body
	}

	if desc := strings.TrimSpace(c.BreakingDescription); c.Breaking && desc != "" {
		msg += "\n\n" + breakingFooterPrefix + " " + desc
	}

	return msg
}

// Text is the prose the verifier checks: subject, then body.
func (c CandidateCommit) Text() string {
	body := strings.TrimSpace(c.Body)
	if body == "" {
		return c.Subject
	}
	return c.Subject + "\n" + body
}

// Validate checks the commit against rules and returns the first violation.
func (c CandidateCommit) Validate(rules CommitRules) error {
	if len(rules.Types) > 0 && !slices.ContainsFunc(rules.Types, func(t CommitType) bool { return t.Value == c.Type }) {
		return errors.ErrCommitTypeInvalid.WithContext("type", c.Type)
	}

	if c.Scope != "" && !rules.AllowCustomScopes && !slices.Contains(rules.Scopes, c.Scope) {
		return errors.ErrScopeNotAllowed.WithContext("scope", c.Scope)
	}

	n := utf8.RuneCountInString(strings.TrimSpace(c.Subject))
	if (rules.MinSubjectLength > 0 && n < rules.MinSubjectLength) || (rules.MaxSubjectLength > 0 && n > rules.MaxSubjectLength) {
		return errors.ErrSubjectLength.
			WithContext("length", n).
			WithSuggestion(fmt.Sprintf("Keep the subject between %d and %d characters", rules.MinSubjectLength, rules.MaxSubjectLength))
	}

	if body := strings.TrimSpace(c.Body); body != "" && utf8.RuneCountInString(body) < MinBodyLength {
		return errors.ErrBodyTooShort.WithContext("length", utf8.RuneCountInString(body))
	}

	return nil
}

// IsConventionalCommit reports whether the first line of message follows
// type(scope)!: subject.
func IsConventionalCommit(message string) bool {
	header, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return conventionalHeaderRegex.MatchString(strings.TrimSpace(header))
}

// ParseConventionalCommit splits a conventional commit message into its parts.
// A BREAKING CHANGE footer is lifted out of the body.
func ParseConventionalCommit(message string) (*CandidateCommit, error) {
	message = strings.TrimSpace(strings.ReplaceAll(message, "\r\n", "\n"))
	header, rest, _ := strings.Cut(message, "\n")

	m := conventionalHeaderRegex.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return nil, errors.ErrNotConventional.WithContext("header", header)
	}

	commit := &CandidateCommit{
		Type:     strings.ToLower(m[1]),
		Scope:    m[2],
		Breaking: m[3] == "!",
		Subject:  strings.TrimSpace(m[4]),
	}

	var body []string
	for _, line := range strings.Split(strings.TrimSpace(rest), "\n") {
		if desc, ok := strings.CutPrefix(line, breakingFooterPrefix); ok {
			commit.Breaking = true
			commit.BreakingDescription = strings.TrimSpace(desc)
			continue
		}
		// git comment lines, as found in COMMIT_EDITMSG
		if strings.HasPrefix(line, "#") {
			continue
		}
		body = append(body, line)
	}
	commit.Body = strings.TrimSpace(strings.Join(body, "\n"))

	return commit, nil
}
