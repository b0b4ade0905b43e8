package config

// AI provider names accepted in ai.provider.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderMistral   = "mistral"
)

// Verifier engines accepted in verifier.engine.
const (
	EngineModel  = "model"
	EngineRubric = "rubric"
)

func SupportedProviders() []string {
	return []string{
		ProviderGemini,
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderOllama,
		ProviderMistral,
	}
}

// providerKeyEnv is the conventional environment variable of each provider
// key, consulted when the configuration carries none.
var providerKeyEnv = map[string]string{
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderMistral:   "MISTRAL_API_KEY",
}

// KeyRequired reports whether provider refuses to run without an API key.
func KeyRequired(provider string) bool {
	return provider != ProviderOllama
}
