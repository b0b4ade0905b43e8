package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAI            ErrorType = "AI"
	TypeGit           ErrorType = "GIT"
	TypeAnalysis      ErrorType = "ANALYSIS"
	TypeVerification  ErrorType = "VERIFICATION"
	TypeAuth          ErrorType = "AUTH"
	TypeValidation    ErrorType = "VALIDATION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message, so
// copies derived with WithError/WithContext still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Git errors
var (
	ErrNotInGitRepo = NewAppError(TypeGit, "Not in a git repository", nil).
			WithSuggestion("Initialize a git repository: git init")

	ErrNoChanges = NewAppError(TypeGit, "No changes detected", nil).
			WithSuggestion("Modify or stage some files first: git add <files>")

	ErrNoDiff = NewAppError(TypeGit, "No differences detected", nil).
			WithSuggestion("Stage your changes first: git add <files>")

	ErrGetDiff = NewAppError(TypeGit, "Failed to get diff", nil).
			WithSuggestion("Check if you have changes: git status")

	ErrGetChangedFiles = NewAppError(TypeGit, "Failed to get changed files", nil).
				WithSuggestion("Verify you have changes: git status")

	ErrStageChanges = NewAppError(TypeGit, "Failed to stage changes", nil).
			WithSuggestion("Check file permissions and try: git add .")

	ErrCreateCommit = NewAppError(TypeGit, "Failed to create commit", nil).
			WithSuggestion("Ensure git user is configured:\n   git config --global user.name \"Your Name\"\n   git config --global user.email \"your@email.com\"")

	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrGetRecentCommits = NewAppError(TypeGit, "Failed to get recent commit messages", nil).
				WithSuggestion("Verify repository has commits: git log --oneline")

	ErrGetRepoRoot = NewAppError(TypeGit, "Failed to get repository root", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrNoRemote = NewAppError(TypeGit, "No remote configured", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrGetRemoteURL = NewAppError(TypeGit, "Failed to get remote URL", nil).
			WithSuggestion("Verify remote is configured: git remote -v")

	ErrPush = NewAppError(TypeGit, "Failed to push to remote", nil).
		WithSuggestion("Verify remote is configured: git remote -v")
)

// Configuration errors
var (
	ErrConfigInvalid = NewAppError(TypeConfiguration, "Configuration is invalid", nil).
				WithSuggestion("Review your .commitformatrc or run: commitformat config init")

	ErrConfigRead = NewAppError(TypeConfiguration, "Failed to read configuration", nil).
			WithSuggestion("Check the syntax of your .commitformatrc file")

	ErrConfigExists = NewAppError(TypeConfiguration, "Configuration file already exists", nil).
			WithSuggestion("Use --force to overwrite it")

	ErrAIDisabled = NewAppError(TypeConfiguration, "AI is not enabled in the configuration", nil).
			WithSuggestion("Add to your .commitformatrc:\n{\n  \"ai\": { \"enabled\": true, \"provider\": \"gemini\" }\n}")

	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is missing", nil).
				WithSuggestion("Set the key in .commitformatrc (ai.apiKey) or export COMMITFORMAT_AI_API_KEY")

	ErrUnsupportedProvider = NewAppError(TypeConfiguration, "AI provider not supported", nil).
				WithSuggestion("Supported providers: gemini, openai, anthropic, ollama, mistral")
)

// AI errors
var (
	ErrQuotaExceeded = NewAppError(TypeAI, "AI quota exceeded or rate limited", nil).
				WithSuggestion("Wait a few minutes and try again, or check your API quota")

	ErrAPIKeyInvalid = NewAppError(TypeAI, "AI API key is invalid", nil).
				WithSuggestion("Check the API key configured for your provider")

	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil).
				WithSuggestion("This is likely a temporary issue, please try again")
)

// Verification errors
var (
	ErrVerificationParse = NewAppError(TypeVerification, "verifier response does not match the result schema", nil).
				WithSuggestion("Retry the verification or run it offline with --offline")

	ErrVerificationUnavailable = NewAppError(TypeVerification, "verification unavailable", nil)
)

// Analysis errors
var (
	ErrReadDiff = NewAppError(TypeAnalysis, "Failed to read diff input", nil).
		WithSuggestion("Pass a readable file with --diff-file or pipe a diff into stdin with --diff-file -")
)

// Commit validation errors
var (
	ErrCommitTypeInvalid = NewAppError(TypeValidation, "Commit type is not one of the configured types", nil).
				WithSuggestion("Use one of the types listed in your configuration, e.g. feat, fix, docs")

	ErrScopeNotAllowed = NewAppError(TypeValidation, "Commit scope is not allowed", nil).
				WithSuggestion("Pick a configured scope or set allowCustomScopes to true")

	ErrSubjectLength = NewAppError(TypeValidation, "Commit subject length is out of range", nil)

	ErrBodyTooShort = NewAppError(TypeValidation, "Commit body too short", nil).
			WithSuggestion("Write at least 10 characters or leave the body empty")

	ErrNotConventional = NewAppError(TypeValidation, "Message is not a conventional commit", nil).
				WithSuggestion("Use the form: type(scope): subject")

	ErrEditor = NewAppError(TypeInternal, "Failed to run the editor", nil).
			WithSuggestion("Set the EDITOR environment variable")
)

// Auth errors
var (
	ErrNotAuthenticated = NewAppError(TypeAuth, "Not authenticated with GitHub", nil).
				WithSuggestion("Run: commitformat auth login")

	ErrDeviceFlow = NewAppError(TypeAuth, "GitHub authorization failed", nil).
			WithSuggestion("Retry: commitformat auth login")

	ErrGitHubTokenInvalid = NewAppError(TypeAuth, "GitHub token is invalid or expired", nil).
				WithSuggestion("Log in again: commitformat auth login")

	ErrCredentials = NewAppError(TypeAuth, "Failed to access stored credentials", nil).
			WithSuggestion("Check permissions of ~/.commitformat-credentials")
)
