package verifier

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/thomas-vilte/commitformat/internal/ai"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/models"
)

// modelResponse mirrors the JSON contract of the verifier prompt. Pointers
// tell a missing field from a zero value.
type modelResponse struct {
	FactualAccuracy     *float64     `json:"factualAccuracy" validate:"required,gte=0,lte=100"`
	HasCriticalIssues   *bool        `json:"hasCriticalIssues" validate:"required"`
	Issues              []modelIssue `json:"issues" validate:"required,dive"`
	VerifiedSymbols     []string     `json:"verifiedSymbols" validate:"required"`
	MissingSymbols      []string     `json:"missingSymbols" validate:"required"`
	HallucinatedSymbols []string     `json:"hallucinatedSymbols" validate:"required"`
	Recommendations     []string     `json:"recommendations" validate:"required"`
	Reasoning           *string      `json:"reasoning" validate:"required"`
}

type modelIssue struct {
	Type        *string `json:"type" validate:"required,oneof=hallucination omission inaccuracy"`
	Severity    *string `json:"severity" validate:"required,oneof=critical major minor"`
	Description *string `json:"description" validate:"required"`
	Evidence    *string `json:"evidence" validate:"required"`
}

var validate = validator.New()

// parseModelResponse extracts and validates the verifier JSON. Any syntax
// error or missing field yields ErrVerificationParse.
func parseModelResponse(text string) (*models.VerificationResult, error) {
	raw := ai.ExtractJSON(text)

	var resp modelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, domainErrors.ErrVerificationParse.WithError(err).WithContext("response", ai.Preview(text, ai.PreviewLimit))
	}
	if err := validate.Struct(&resp); err != nil {
		return nil, domainErrors.ErrVerificationParse.WithError(err).WithContext("response", ai.Preview(text, ai.PreviewLimit))
	}

	result := &models.VerificationResult{
		FactualAccuracy:     round(*resp.FactualAccuracy),
		HasCriticalIssues:   *resp.HasCriticalIssues,
		Issues:              make([]models.VerificationIssue, 0, len(resp.Issues)),
		VerifiedSymbols:     trimAll(resp.VerifiedSymbols),
		MissingSymbols:      trimAll(resp.MissingSymbols),
		HallucinatedSymbols: trimAll(resp.HallucinatedSymbols),
		Recommendations:     trimAll(resp.Recommendations),
		Reasoning:           strings.TrimSpace(*resp.Reasoning),
	}
	for _, issue := range resp.Issues {
		result.Issues = append(result.Issues, models.VerificationIssue{
			Type:        models.IssueType(*issue.Type),
			Severity:    models.Severity(*issue.Severity),
			Description: strings.TrimSpace(*issue.Description),
			Evidence:    strings.TrimSpace(*issue.Evidence),
		})
	}
	return result, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
