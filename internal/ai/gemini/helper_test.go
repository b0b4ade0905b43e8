package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestExtractUsage(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Nil(t, extractUsage(nil))
	})

	t.Run("nil UsageMetadata", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{}
		assert.Nil(t, extractUsage(resp))
	})

	t.Run("valid UsageMetadata", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     10,
				CandidatesTokenCount: 20,
				TotalTokenCount:      30,
			},
		}
		usage := extractUsage(resp)
		assert.NotNil(t, usage)
		assert.Equal(t, 10, usage.InputTokens)
		assert.Equal(t, 20, usage.OutputTokens)
		assert.Equal(t, 30, usage.TotalTokens)
	})
}

func TestGetGenerateConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		cfg := GetGenerateConfig("gemini-2.5-flash", "", false)
		assert.NotNil(t, cfg)
		assert.Equal(t, float32(0.2), *cfg.Temperature)
		assert.Empty(t, cfg.ResponseMIMEType)
		assert.Nil(t, cfg.ThinkingConfig)
		assert.Nil(t, cfg.SystemInstruction)
	})

	t.Run("json output with system instruction", func(t *testing.T) {
		cfg := GetGenerateConfig("gemini-2.5-flash", "be strict", true)
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		if assert.NotNil(t, cfg.SystemInstruction) {
			assert.Equal(t, "be strict", cfg.SystemInstruction.Parts[0].Text)
		}
	})

	t.Run("Thinking Mode for gemini-3", func(t *testing.T) {
		cfg := GetGenerateConfig("gemini-3-flash-preview", "", false)
		assert.NotNil(t, cfg.ThinkingConfig)
		assert.True(t, cfg.ThinkingConfig.IncludeThoughts)
		assert.Equal(t, genai.ThinkingLevelHigh, cfg.ThinkingConfig.ThinkingLevel)
	})
}

func TestFormatResponse(t *testing.T) {
	assert.Empty(t, formatResponse(nil))
	assert.Empty(t, formatResponse(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "thinking about the diff", Thought: true},
						{Text: `{"type":`},
						{Text: `"feat"}`},
					},
				},
			},
		},
	}
	assert.Equal(t, `{"type":"feat"}`, formatResponse(resp))
}
