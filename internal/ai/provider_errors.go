package ai

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

// ClassifyError maps a provider SDK error onto the quota, auth or generic
// generation sentinels. Context cancellation passes through untouched.
func ClassifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "quota"),
		strings.Contains(errMsg, "rate limit"),
		strings.Contains(errMsg, "resource exhausted"),
		strings.Contains(errMsg, "429"):
		return domainErrors.ErrQuotaExceeded.WithError(err).WithContext("provider", provider)
	case strings.Contains(errMsg, "invalid api key"),
		strings.Contains(errMsg, "incorrect api key"),
		strings.Contains(errMsg, "api key not valid"),
		strings.Contains(errMsg, "unauthorized"),
		strings.Contains(errMsg, "authentication"),
		strings.Contains(errMsg, "401"):
		return domainErrors.ErrAPIKeyInvalid.WithError(err).WithContext("provider", provider)
	default:
		return domainErrors.ErrAIGeneration.WithError(err).WithContext("provider", provider)
	}
}
