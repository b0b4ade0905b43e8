// Package providers builds the configured AI completer.
package providers

import (
	"context"

	"github.com/thomas-vilte/commitformat/internal/ai"
	"github.com/thomas-vilte/commitformat/internal/ai/anthropic"
	"github.com/thomas-vilte/commitformat/internal/ai/gemini"
	"github.com/thomas-vilte/commitformat/internal/ai/openai"
	"github.com/thomas-vilte/commitformat/internal/config"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

// NewCompleter creates the completer for cfg.Provider wrapped in a usage tracker.
// It never returns a typed nil.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (*ai.UsageTracker, error) {
	if !cfg.Enabled {
		return nil, domainErrors.ErrAIDisabled
	}

	var (
		completer ai.Completer
		err       error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		completer, err = newGemini(ctx, cfg)
	case config.ProviderOpenAI:
		completer, err = newOpenAI(openai.OpenAI, cfg)
	case config.ProviderOllama:
		completer, err = newOpenAI(openai.Ollama, cfg)
	case config.ProviderMistral:
		completer, err = newOpenAI(openai.Mistral, cfg)
	case config.ProviderAnthropic:
		completer, err = newAnthropic(cfg)
	default:
		return nil, domainErrors.ErrUnsupportedProvider.WithContext("provider", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return ai.NewUsageTracker(completer), nil
}

func newGemini(ctx context.Context, cfg config.AIConfig) (ai.Completer, error) {
	c, err := gemini.NewCompleter(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newOpenAI(flavor openai.Flavor, cfg config.AIConfig) (ai.Completer, error) {
	c, err := openai.NewCompleter(flavor, openai.Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newAnthropic(cfg config.AIConfig) (ai.Completer, error) {
	c, err := anthropic.NewCompleter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}
