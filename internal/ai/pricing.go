package ai

import (
	"strings"
)

// Price is the list price of a model in USD per million tokens.
type Price struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// prices maps provider to model name prefix. Local providers (ollama) cost
// nothing and are absent.
var prices = map[string]map[string]Price{
	"gemini": {
		"gemini-2.5-flash-lite": {InputPerMillion: 0.10, OutputPerMillion: 0.40},
		"gemini-2.5-flash":      {InputPerMillion: 0.30, OutputPerMillion: 2.50},
		"gemini-2.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
		"gemini-2.0-flash":      {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	},
	"openai": {
		"gpt-4o-mini":  {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		"gpt-4o":       {InputPerMillion: 2.50, OutputPerMillion: 10.00},
		"gpt-4.1-mini": {InputPerMillion: 0.40, OutputPerMillion: 1.60},
		"gpt-4.1":      {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	},
	"anthropic": {
		"claude-3-5-haiku": {InputPerMillion: 0.80, OutputPerMillion: 4.00},
		"claude-haiku-4":   {InputPerMillion: 1.00, OutputPerMillion: 5.00},
		"claude-sonnet-4":  {InputPerMillion: 3.00, OutputPerMillion: 15.00},
		"claude-opus-4":    {InputPerMillion: 15.00, OutputPerMillion: 75.00},
	},
	"mistral": {
		"mistral-small": {InputPerMillion: 0.10, OutputPerMillion: 0.30},
		"mistral-large": {InputPerMillion: 2.00, OutputPerMillion: 6.00},
	},
}

// LookupPrice finds the price of model, matching the longest known prefix so
// dated names like claude-sonnet-4-20250514 resolve.
func LookupPrice(provider, model string) (Price, bool) {
	table, ok := prices[strings.ToLower(provider)]
	if !ok {
		return Price{}, false
	}
	model = strings.ToLower(model)

	best, found := "", false
	for prefix := range table {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best, found = prefix, true
		}
	}
	return table[best], found
}

// EstimateCost returns the USD cost of a call, or 0 for unknown models.
func EstimateCost(provider, model string, inputTokens, outputTokens int) float64 {
	p, ok := LookupPrice(provider, model)
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}
