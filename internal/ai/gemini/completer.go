// Package gemini implements the ai.Completer port on Google's genai SDK.
package gemini

import (
	"context"
	"strings"

	"github.com/thomas-vilte/commitformat/internal/ai"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"google.golang.org/genai"
)

const (
	ProviderName = "gemini"
	DefaultModel = "gemini-2.5-flash"
)

var _ ai.Completer = (*Completer)(nil)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type Completer struct {
	model      string
	generateFn generateFunc
}

// NewCompleter creates a Gemini API client for model, falling back to DefaultModel.
func NewCompleter(ctx context.Context, apiKey, model string) (*Completer, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", ProviderName)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "invalid") ||
			strings.Contains(errMsg, "unauthorized") ||
			strings.Contains(errMsg, "api key") {
			return nil, domainErrors.ErrAPIKeyInvalid.WithError(err).WithContext("provider", ProviderName)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}

	if model == "" {
		model = DefaultModel
	}
	return &Completer{
		model:      model,
		generateFn: client.Models.GenerateContent,
	}, nil
}

func (c *Completer) ProviderName() string { return ProviderName }

func (c *Completer) ModelName() string { return c.model }

func (c *Completer) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	log := logger.FromContext(ctx)

	genConfig := GetGenerateConfig(c.model, prompt.System, prompt.JSON)
	resp, err := c.generateFn(ctx, c.model, genai.Text(prompt.User), genConfig)
	if err != nil {
		log.Debug("gemini API call failed", "error", err, "model", c.model)
		return nil, ai.ClassifyError(ProviderName, err)
	}

	text := formatResponse(resp)
	if strings.TrimSpace(text) == "" {
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("provider", ProviderName)
	}

	return &ai.Completion{Text: text, Usage: extractUsage(resp)}, nil
}
