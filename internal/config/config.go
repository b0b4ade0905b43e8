// Package config loads the commitformat configuration from rc files,
// package.json and the environment.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/models"
)

const (
	LangEN = "en"
	LangES = "es"
	LangFR = "fr"

	defaultLang             = LangEN
	defaultMinSubjectLength = 3
	defaultMaxSubjectLength = 100
	defaultMaxDiffChars     = 8000
	defaultMajorFileCount   = 3
	defaultHistoryCount     = 10
)

type (
	Config struct {
		Language          string              `mapstructure:"language" json:"language" yaml:"language" validate:"oneof=en es fr"`
		Types             []models.CommitType `mapstructure:"types" json:"types" yaml:"types" validate:"min=1,dive"`
		Scopes            []string            `mapstructure:"scopes" json:"scopes" yaml:"scopes"`
		AllowCustomScopes bool                `mapstructure:"allowCustomScopes" json:"allowCustomScopes" yaml:"allowCustomScopes"`
		MinSubjectLength  int                 `mapstructure:"minSubjectLength" json:"minSubjectLength" yaml:"minSubjectLength" validate:"gte=1"`
		MaxSubjectLength  int                 `mapstructure:"maxSubjectLength" json:"maxSubjectLength" yaml:"maxSubjectLength" validate:"gtefield=MinSubjectLength"`
		// HistoryCount is how many recent commit subjects the generator sees as a style reference.
		HistoryCount int            `mapstructure:"historyCount" json:"historyCount" yaml:"historyCount" validate:"gte=0,lte=50"`
		AI           AIConfig       `mapstructure:"ai" json:"ai" yaml:"ai"`
		Verifier     VerifierConfig `mapstructure:"verifier" json:"verifier" yaml:"verifier"`
		GitHub       GitHubConfig   `mapstructure:"github" json:"github" yaml:"github"`

		// path is the file the configuration was read from, empty for defaults only.
		path string
	}

	AIConfig struct {
		Enabled  bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
		Provider string `mapstructure:"provider" json:"provider" yaml:"provider" validate:"oneof=gemini openai anthropic ollama mistral"`
		Model    string `mapstructure:"model" json:"model,omitempty" yaml:"model,omitempty"`
		APIKey   string `mapstructure:"apiKey" json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
		BaseURL  string `mapstructure:"baseUrl" json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" validate:"omitempty,url"`
	}

	VerifierConfig struct {
		Enabled        bool     `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
		Engine         string   `mapstructure:"engine" json:"engine" yaml:"engine" validate:"oneof=model rubric"`
		MaxDiffChars   int      `mapstructure:"maxDiffChars" json:"maxDiffChars" yaml:"maxDiffChars" validate:"gte=500"`
		MajorFileCount int      `mapstructure:"majorFileCount" json:"majorFileCount" yaml:"majorFileCount" validate:"gte=1"`
		IgnoreWords    []string `mapstructure:"ignoreWords" json:"ignoreWords,omitempty" yaml:"ignoreWords,omitempty"`
	}

	GitHubConfig struct {
		// ClientID is the OAuth App used by the device flow login.
		ClientID string `mapstructure:"clientId" json:"clientId" yaml:"clientId"`
	}
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Language:          defaultLang,
		Types:             models.DefaultCommitTypes(),
		Scopes:            []string{},
		AllowCustomScopes: true,
		MinSubjectLength:  defaultMinSubjectLength,
		MaxSubjectLength:  defaultMaxSubjectLength,
		HistoryCount:      defaultHistoryCount,
		AI: AIConfig{
			Enabled:  false,
			Provider: ProviderGemini,
		},
		Verifier: VerifierConfig{
			Enabled:        true,
			Engine:         EngineModel,
			MaxDiffChars:   defaultMaxDiffChars,
			MajorFileCount: defaultMajorFileCount,
		},
		GitHub: GitHubConfig{
			ClientID: defaultGitHubClientID,
		},
	}
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }

// CommitRules returns the validation rules for commit messages.
func (c *Config) CommitRules() models.CommitRules {
	return models.CommitRules{
		Types:             slices.Clone(c.Types),
		Scopes:            slices.Clone(c.Scopes),
		AllowCustomScopes: c.AllowCustomScopes,
		MinSubjectLength:  c.MinSubjectLength,
		MaxSubjectLength:  c.MaxSubjectLength,
	}
}

// Masked returns a copy safe to print: secrets keep their last four characters.
func (c *Config) Masked() *Config {
	out := *c
	out.Types = slices.Clone(c.Types)
	out.Scopes = slices.Clone(c.Scopes)
	out.Verifier.IgnoreWords = slices.Clone(c.Verifier.IgnoreWords)
	out.AI.APIKey = maskSecret(c.AI.APIKey)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and reports the first offending field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
		}
		return domainErrors.ErrConfigInvalid.WithError(err).WithContext("fields", strings.Join(fields, ", "))
	}
	for _, t := range c.Types {
		if strings.TrimSpace(t.Value) == "" {
			return domainErrors.ErrConfigInvalid.WithContext("fields", "Config.Types.Value (required)")
		}
	}
	return nil
}
