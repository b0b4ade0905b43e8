package models

// TokenUsage is the token accounting reported by an AI provider for one call.
type TokenUsage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	Model        string `json:"model,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	// CostUSD is an estimate from list prices; 0 when the model is unknown.
	CostUSD float64 `json:"cost_usd,omitempty"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *TokenUsage) Add(other *TokenUsage) {
	if u == nil || other == nil {
		return
	}
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.DurationMs += other.DurationMs
	u.CostUSD += other.CostUSD
	if u.Model == "" {
		u.Model = other.Model
	}
}
