// Package anthropic implements the ai.Completer port on the Anthropic Messages API.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/thomas-vilte/commitformat/internal/ai"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
)

const (
	ProviderName = "anthropic"
	DefaultModel = "claude-sonnet-4-5"

	maxTokens = 4096
)

var _ ai.Completer = (*Completer)(nil)

type Completer struct {
	api   *sdk.Client
	model string
}

// NewCompleter creates a Messages API client. baseURL is only set by tests
// and proxies.
func NewCompleter(apiKey, model, baseURL string) (*Completer, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", ProviderName)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}

	client := sdk.NewClient(opts...)
	return &Completer{api: &client, model: model}, nil
}

func (c *Completer) ProviderName() string { return ProviderName }

func (c *Completer) ModelName() string { return c.model }

func (c *Completer) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt.User)),
		},
	}
	if prompt.System != "" {
		params.System = []sdk.TextBlockParam{{Text: prompt.System}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		logger.FromContext(ctx).Debug("anthropic API call failed", "error", err, "model", c.model)
		return nil, ai.ClassifyError(ProviderName, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("provider", ProviderName)
	}

	return &ai.Completion{
		Text: text.String(),
		Usage: &models.TokenUsage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}
