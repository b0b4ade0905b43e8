package verifier

import (
	"github.com/thomas-vilte/commitformat/internal/ai"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// promptSymbolLimit is how many modified symbols are listed in the prompt.
const promptSymbolLimit = 10

func (v *Verifier) buildPrompt(commit models.CandidateCommit, diff string, analysis *models.DiffAnalysis) (ai.Prompt, error) {
	data := ai.VerifierPromptData{
		Type:         commit.Type,
		Scope:        commit.Scope,
		Subject:      commit.Subject,
		Body:         commit.Body,
		Diff:         diff,
		FilesChanged: analysis.Summary.FilesChanged,
		Pattern:      string(analysis.PrimaryPattern().Type),
		TotalSymbols: len(analysis.ModifiedSymbols),
	}
	for i, sym := range analysis.ModifiedSymbols {
		if i == promptSymbolLimit {
			data.MoreSymbols = len(analysis.ModifiedSymbols) - promptSymbolLimit
			break
		}
		data.Symbols = append(data.Symbols, ai.SymbolLine{Name: sym.Name, Type: string(sym.Type)})
	}

	user, err := ai.RenderPrompt("verifier", ai.GetVerifierPromptTemplate(v.opts.Language), data)
	if err != nil {
		return ai.Prompt{}, err
	}
	return ai.Prompt{
		System: ai.GetVerifierSystemPrompt(v.opts.Language),
		User:   user,
		JSON:   true,
	}, nil
}
