// Package openai implements the ai.Completer port for OpenAI and for the
// OpenAI-compatible APIs of Ollama and Mistral.
package openai

import (
	"context"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/thomas-vilte/commitformat/internal/ai"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// Flavor describes one OpenAI-compatible backend.
type Flavor struct {
	Provider     string
	BaseURL      string
	DefaultModel string
	// KeyOptional backends accept requests without an API key.
	KeyOptional bool
}

var (
	OpenAI  = Flavor{Provider: "openai", DefaultModel: "gpt-4o-mini"}
	Ollama  = Flavor{Provider: "ollama", BaseURL: "http://localhost:11434/v1", DefaultModel: "llama3.1", KeyOptional: true}
	Mistral = Flavor{Provider: "mistral", BaseURL: "https://api.mistral.ai/v1", DefaultModel: "mistral-small-latest"}
)

var _ ai.Completer = (*Completer)(nil)

type Completer struct {
	client   *goopenai.Client
	provider string
	model    string
}

// Options override the flavor defaults. Empty fields keep them.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewCompleter(flavor Flavor, opts Options) (*Completer, error) {
	if opts.APIKey == "" && !flavor.KeyOptional {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", flavor.Provider)
	}

	cfg := goopenai.DefaultConfig(opts.APIKey)
	baseURL := flavor.BaseURL
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	model := opts.Model
	if model == "" {
		model = flavor.DefaultModel
	}

	return &Completer{
		client:   goopenai.NewClientWithConfig(cfg),
		provider: flavor.Provider,
		model:    model,
	}, nil
}

func (c *Completer) ProviderName() string { return c.provider }

func (c *Completer) ModelName() string { return c.model }

func (c *Completer) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	log := logger.FromContext(ctx)

	var messages []goopenai.ChatCompletionMessage
	if prompt.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: prompt.System})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: prompt.User})

	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
	}
	if prompt.JSON {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Debug("chat completion failed", "error", err, "provider", c.provider, "model", c.model)
		return nil, ai.ClassifyError(c.provider, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("provider", c.provider)
	}
	log.Debug("chat completion received", "finish_reason", resp.Choices[0].FinishReason)

	return &ai.Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: &models.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
