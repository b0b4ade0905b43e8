package ai

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain object",
			input:    `{"type":"feat","subject":"add calculateTax"}`,
			expected: `{"type":"feat","subject":"add calculateTax"}`,
		},
		{
			name:     "fenced json block",
			input:    "Here you go:\n```json\n{\"type\":\"fix\"}\n```\nanything else?",
			expected: `{"type":"fix"}`,
		},
		{
			name:     "fenced block without language",
			input:    "```\n{\"type\":\"docs\"}\n```",
			expected: `{"type":"docs"}`,
		},
		{
			name:     "longest fenced block wins",
			input:    "```json\n{\"a\":1}\n```\n```json\n{\"a\":1,\"b\":2}\n```",
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "object surrounded by thinking text",
			input:    "Let me think {not json} about it.\n{\"factualAccuracy\":90,\"issues\":[]}\nDone.",
			expected: `{"factualAccuracy":90,"issues":[]}`,
		},
		{
			name:     "braces inside strings are ignored",
			input:    `prefix {"subject":"handle } in templates"} suffix`,
			expected: `{"subject":"handle } in templates"}`,
		},
		{
			name:     "raw newline inside string is escaped",
			input:    "{\"body\":\"line one\nline two\"}",
			expected: `{"body":"line one\nline two"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	got := ExtractJSON("  I cannot help with that.  ")
	assert.Equal(t, "I cannot help with that.", got)
	assert.False(t, json.Valid([]byte(got)))
}

func TestPreview(t *testing.T) {
	t.Run("short text is kept", func(t *testing.T) {
		assert.Equal(t, "{}", Preview("{}", PreviewLimit))
	})

	t.Run("cuts on a rune boundary", func(t *testing.T) {
		got := Preview(strings.Repeat("é", 5), 3)

		assert.Equal(t, "ééé...", got)
		assert.True(t, utf8.ValidString(got))
	})
}
