package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrGetDiff.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeGit {
		t.Errorf("Expected type %s, got %s", TypeGit, appErr.Type)
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrStageChanges.WithContext("path", ".").WithContext("stderr", "permission denied")

	if appErr.Context["path"] != "." {
		t.Errorf("Expected path context '.', got %v", appErr.Context["path"])
	}

	if appErr.Context["stderr"] != "permission denied" {
		t.Errorf("Expected stderr context 'permission denied', got %v", appErr.Context["stderr"])
	}

	if ErrStageChanges.Context != nil {
		t.Error("WithContext must not mutate the sentinel")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name: "Simple error without underlying error",
			err:  ErrNoChanges,
			contains: []string{
				"GIT",
				"No changes detected",
			},
		},
		{
			name: "Error with underlying error",
			err:  ErrGetBranch.WithError(errors.New("exit status 1")),
			contains: []string{
				"GIT",
				"Failed to get current branch",
				"exit status 1",
			},
		},
		{
			name: "Error with context including stderr",
			err: ErrPush.WithError(errors.New("exit status 128")).
				WithContext("remote", "origin").
				WithContext("stderr", "could not read Username"),
			contains: []string{
				"GIT",
				"Failed to push to remote",
				"exit status 128",
				"could not read Username",
			},
		},
		{
			name: "Verification parse error",
			err: ErrVerificationParse.WithError(errors.New("missing field")).
				WithContext("field", "factualAccuracy"),
			contains: []string{
				"VERIFICATION",
				"result schema",
				"missing field",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errMsg, substr) {
					t.Errorf("Expected error message to contain %q, got: %s", substr, errMsg)
				}
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	appErr := ErrCreateCommit.WithError(baseErr)

	unwrapped := appErr.Unwrap()
	if unwrapped != baseErr {
		t.Errorf("Expected unwrapped error to be %v, got %v", baseErr, unwrapped)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("errors.Is should work with AppError")
	}
}

func TestAppError_Is(t *testing.T) {
	t.Run("derived copies match their sentinel", func(t *testing.T) {
		derived := ErrVerificationParse.WithError(errors.New("bad json")).WithContext("preview", "{")
		wrapped := fmt.Errorf("verify: %w", derived)

		if !errors.Is(wrapped, ErrVerificationParse) {
			t.Error("expected wrapped derived error to match ErrVerificationParse")
		}
		if errors.Is(wrapped, ErrInvalidAIOutput) {
			t.Error("did not expect a match against a different sentinel")
		}
	})

	t.Run("errors.As exposes the suggestion", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", ErrAPIKeyMissing)

		var appErr *AppError
		if !errors.As(err, &appErr) {
			t.Fatal("expected errors.As to find the AppError")
		}
		if appErr.Suggestion == "" {
			t.Error("expected a suggestion")
		}
	})
}

func TestAppError_WithSuggestion(t *testing.T) {
	appErr := NewAppError(TypeInternal, "boom", nil).WithSuggestion("try again")

	if appErr.Suggestion != "try again" {
		t.Errorf("Expected suggestion 'try again', got %q", appErr.Suggestion)
	}
	if appErr.Type != TypeInternal {
		t.Errorf("Expected type %s, got %s", TypeInternal, appErr.Type)
	}
}
