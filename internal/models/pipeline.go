package models

type (
	// PipelineResult is what one analyze → generate → verify run produced.
	// VerificationErr is set when verification failed; the commit is still usable.
	PipelineResult struct {
		Analysis        *DiffAnalysis
		Commit          *CandidateCommit
		Verification    *VerificationResult
		VerificationErr error
		DiffLength      int
		Usage           *TokenUsage
	}

	// CommitStats summarizes how many recent commits follow the convention.
	CommitStats struct {
		Total           int            `json:"total" yaml:"total"`
		Conventional    int            `json:"conventional" yaml:"conventional"`
		NonConventional int            `json:"nonConventional" yaml:"nonConventional"`
		Percentage      float64        `json:"percentage" yaml:"percentage"`
		TypeBreakdown   map[string]int `json:"typeBreakdown" yaml:"typeBreakdown"`
	}
)

// VerificationAvailable reports whether a verification result can be shown.
func (r *PipelineResult) VerificationAvailable() bool {
	return r != nil && r.Verification != nil && r.VerificationErr == nil
}

// ComputeCommitStats counts conventional commits among messages.
func ComputeCommitStats(messages []string) *CommitStats {
	stats := &CommitStats{TypeBreakdown: map[string]int{}}
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		stats.Total++
		commit, err := ParseConventionalCommit(msg)
		if err != nil {
			continue
		}
		stats.Conventional++
		stats.TypeBreakdown[commit.Type]++
	}
	stats.NonConventional = stats.Total - stats.Conventional
	if stats.Total > 0 {
		stats.Percentage = float64(stats.Conventional) / float64(stats.Total) * 100
	}
	return stats
}
