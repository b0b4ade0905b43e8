package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPrice(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     Price
		found    bool
	}{
		{"exact", "gemini", "gemini-2.5-flash", Price{0.30, 2.50}, true},
		{"longest prefix wins", "gemini", "gemini-2.5-flash-lite", Price{0.10, 0.40}, true},
		{"dated model", "anthropic", "claude-sonnet-4-20250514", Price{3.00, 15.00}, true},
		{"mini before full", "openai", "gpt-4o-mini-2024-07-18", Price{0.15, 0.60}, true},
		{"case insensitive", "OpenAI", "GPT-4o", Price{2.50, 10.00}, true},
		{"unknown model", "openai", "o3", Price{}, false},
		{"local provider", "ollama", "llama3", Price{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := LookupPrice(tt.provider, tt.model)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateCost(t *testing.T) {
	assert.InDelta(t, 0.3+2.5, EstimateCost("gemini", "gemini-2.5-flash", 1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 0.000055, EstimateCost("gemini", "gemini-2.5-flash", 100, 10), 1e-9)
	assert.Zero(t, EstimateCost("ollama", "llama3", 5000, 500))
}
