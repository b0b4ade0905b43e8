package ai

import (
	"context"
	"sync"
	"time"

	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// UsageTracker wraps a Completer, timing and logging every call and keeping
// the accumulated token usage of the run.
type UsageTracker struct {
	next Completer

	mu    sync.Mutex
	total models.TokenUsage
	calls int
}

var _ Completer = (*UsageTracker)(nil)

func NewUsageTracker(next Completer) *UsageTracker {
	return &UsageTracker{next: next}
}

func (w *UsageTracker) ProviderName() string { return w.next.ProviderName() }

func (w *UsageTracker) ModelName() string { return w.next.ModelName() }

func (w *UsageTracker) Complete(ctx context.Context, prompt Prompt) (*Completion, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	log.Debug("calling AI provider",
		"provider", w.next.ProviderName(),
		"model", w.next.ModelName(),
		"prompt_length", len(prompt.System)+len(prompt.User))

	resp, err := w.next.Complete(ctx, prompt)
	duration := time.Since(startTime)
	if err != nil {
		log.Error("AI provider call failed",
			"error", err,
			"provider", w.next.ProviderName(),
			"duration_ms", duration.Milliseconds())
		return nil, err
	}

	if resp.Usage == nil {
		resp.Usage = &models.TokenUsage{}
	}
	resp.Usage.Model = w.next.ModelName()
	resp.Usage.DurationMs = duration.Milliseconds()
	resp.Usage.CostUSD = EstimateCost(w.next.ProviderName(), w.next.ModelName(), resp.Usage.InputTokens, resp.Usage.OutputTokens)

	w.mu.Lock()
	w.total.Add(resp.Usage)
	w.calls++
	w.mu.Unlock()

	log.Info("AI provider call completed",
		"provider", w.next.ProviderName(),
		"model", w.next.ModelName(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"cost_usd", resp.Usage.CostUSD,
		"duration_ms", duration.Milliseconds())

	return resp, nil
}

// Total returns the usage accumulated so far and the number of calls.
func (w *UsageTracker) Total() (models.TokenUsage, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total, w.calls
}
