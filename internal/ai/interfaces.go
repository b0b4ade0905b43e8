package ai

import (
	"context"

	"github.com/thomas-vilte/commitformat/internal/models"
)

type (
	// Prompt is a single-turn request: system instructions plus user content.
	Prompt struct {
		System string
		User   string
		// JSON asks providers that support it for a JSON-only response.
		JSON bool
	}

	Completion struct {
		Text  string
		Usage *models.TokenUsage
	}
)

// Completer is the port every AI provider implements.
type Completer interface {
	// Complete sends the prompt and returns the raw model text.
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)

	// ProviderName returns the name of the provider (e.g.: "gemini", "openai", "anthropic")
	ProviderName() string

	// ModelName returns the name of the current model (e.g.: "gemini-2.5-flash")
	ModelName() string
}

// EngineName identifies a completer in verification results, e.g. "gemini/gemini-2.5-flash".
func EngineName(c Completer) string {
	return c.ProviderName() + "/" + c.ModelName()
}
