package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commitformat/internal/errors"
)

func defaultRules() CommitRules {
	return CommitRules{
		Types:             DefaultCommitTypes(),
		AllowCustomScopes: true,
		MinSubjectLength:  3,
		MaxSubjectLength:  100,
	}
}

func TestCandidateCommit_Format(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		c := CandidateCommit{Type: "feat", Subject: "add computeTotal to billing"}
		assert.Equal(t, "feat: add computeTotal to billing", c.Format())
	})

	t.Run("scope, body and breaking footer", func(t *testing.T) {
		c := CandidateCommit{
			Type:                "feat",
			Scope:               "api",
			Subject:             "drop v1 endpoints",
			Body:                "  The v1 handlers are gone.  ",
			Breaking:            true,
			BreakingDescription: "clients must call /v2",
		}

		expected := "feat(api)!: drop v1 endpoints\n\nThe v1 handlers are gone.\n\nBREAKING CHANGE: clients must call /v2"
		assert.Equal(t, expected, c.Format())
	})

	t.Run("breaking without description keeps only the marker", func(t *testing.T) {
		c := CandidateCommit{Type: "fix", Subject: "change defaults", Breaking: true}
		assert.Equal(t, "fix!: change defaults", c.Format())
	})
}

func TestCandidateCommit_Text(t *testing.T) {
	assert.Equal(t, "add parser", CandidateCommit{Subject: "add parser"}.Text())
	assert.Equal(t, "add parser\nUses parseHeader.", CandidateCommit{Subject: "add parser", Body: "Uses parseHeader.\n"}.Text())
}

func TestCandidateCommit_Validate(t *testing.T) {
	rules := defaultRules()

	t.Run("valid commit", func(t *testing.T) {
		c := CandidateCommit{Type: "fix", Scope: "git", Subject: "handle empty diff", Body: "Return ErrNoDiff early."}
		assert.NoError(t, c.Validate(rules))
	})

	t.Run("unknown type", func(t *testing.T) {
		err := CandidateCommit{Type: "feature", Subject: "add things"}.Validate(rules)
		assert.ErrorIs(t, err, errors.ErrCommitTypeInvalid)
	})

	t.Run("subject too short", func(t *testing.T) {
		err := CandidateCommit{Type: "fix", Subject: "ok"}.Validate(rules)
		assert.ErrorIs(t, err, errors.ErrSubjectLength)
	})

	t.Run("body too short", func(t *testing.T) {
		err := CandidateCommit{Type: "fix", Subject: "handle nil", Body: "short"}.Validate(rules)
		assert.ErrorIs(t, err, errors.ErrBodyTooShort)
	})

	t.Run("custom scope rejected when disabled", func(t *testing.T) {
		strict := rules
		strict.AllowCustomScopes = false
		strict.Scopes = []string{"api"}

		assert.NoError(t, CandidateCommit{Type: "fix", Scope: "api", Subject: "handle nil"}.Validate(strict))
		assert.ErrorIs(t, CandidateCommit{Type: "fix", Scope: "ui", Subject: "handle nil"}.Validate(strict), errors.ErrScopeNotAllowed)
	})
}

func TestParseConventionalCommit(t *testing.T) {
	t.Run("full message", func(t *testing.T) {
		msg := "feat(auth)!: add device flow\n\nPolls the token endpoint.\n\nBREAKING CHANGE: tokens move to a new file\n# Please enter the commit message"

		c, err := ParseConventionalCommit(msg)
		require.NoError(t, err)

		assert.Equal(t, "feat", c.Type)
		assert.Equal(t, "auth", c.Scope)
		assert.Equal(t, "add device flow", c.Subject)
		assert.Equal(t, "Polls the token endpoint.", c.Body)
		assert.True(t, c.Breaking)
		assert.Equal(t, "tokens move to a new file", c.BreakingDescription)
	})

	t.Run("round trip through Format", func(t *testing.T) {
		original := CandidateCommit{Type: "docs", Scope: "readme", Subject: "describe config search", Body: "Lists every file name."}

		parsed, err := ParseConventionalCommit(original.Format())
		require.NoError(t, err)
		assert.Equal(t, original, *parsed)
	})

	t.Run("not conventional", func(t *testing.T) {
		_, err := ParseConventionalCommit("Update stuff")
		assert.ErrorIs(t, err, errors.ErrNotConventional)
		assert.False(t, IsConventionalCommit("Update stuff"))
		assert.True(t, IsConventionalCommit("chore: bump deps\n\nbody"))
	})
}

func TestComputeCommitStats(t *testing.T) {
	stats := ComputeCommitStats([]string{
		"feat: add analyzer",
		"fix(git): quote paths",
		"feat(ui)!: new report",
		"WIP",
		"",
	})

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Conventional)
	assert.Equal(t, 1, stats.NonConventional)
	assert.InDelta(t, 75.0, stats.Percentage, 0.001)
	assert.Equal(t, map[string]int{"feat": 2, "fix": 1}, stats.TypeBreakdown)
}
