// Package di wires the configured services for the commands.
package di

import (
	"context"
	"sync"

	"github.com/thomas-vilte/commitformat/internal/ai"
	"github.com/thomas-vilte/commitformat/internal/auth"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/generator"
	"github.com/thomas-vilte/commitformat/internal/git"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/ports"
	"github.com/thomas-vilte/commitformat/internal/providers"
	"github.com/thomas-vilte/commitformat/internal/services"
	"github.com/thomas-vilte/commitformat/internal/verifier"
)

// CompleterFactory builds the AI completer for the configuration.
type CompleterFactory func(ctx context.Context, cfg config.AIConfig) (*ai.UsageTracker, error)

// Container manages the application dependencies. Config and translations
// are shared pointers: the root command may reload them before any service
// is built.
type Container struct {
	config       *config.Config
	translations *i18n.Translations

	newCompleter CompleterFactory
	gitService   *git.GitService

	// lazy initialized
	once         sync.Once
	completer    *ai.UsageTracker
	completerErr error
}

// ServiceOptions selects how the commit service is assembled.
type ServiceOptions struct {
	StagedOnly bool
	// Offline forces the rubric engine and never contacts an AI provider.
	Offline bool
	// Generate attaches the commit generator. The AI completer must then
	// be available, and verification follows the verifier.enabled switch.
	Generate bool
}

func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
		newCompleter: providers.NewCompleter,
		gitService:   git.NewGitService(),
	}
}

// SetCompleterFactory replaces the provider factory.
func (c *Container) SetCompleterFactory(f CompleterFactory) {
	c.newCompleter = f
}

// SetGitService sets the git service
func (c *Container) SetGitService(gitService *git.GitService) {
	c.gitService = gitService
}

func (c *Container) GetGitService() *git.GitService {
	return c.gitService
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}

// GetCompleter returns the configured AI completer, built on first use.
func (c *Container) GetCompleter(ctx context.Context) (*ai.UsageTracker, error) {
	c.once.Do(func() {
		c.completer, c.completerErr = c.newCompleter(ctx, c.config.AI)
	})
	return c.completer, c.completerErr
}

// GetVerifier returns a verifier on the configured engine. The model engine
// needs a working completer; without one the rubric engine is used.
func (c *Container) GetVerifier(ctx context.Context, offline bool) *verifier.Verifier {
	opts := verifier.Options{
		MaxDiffChars:   c.config.Verifier.MaxDiffChars,
		MajorFileCount: c.config.Verifier.MajorFileCount,
		IgnoreWords:    c.config.Verifier.IgnoreWords,
		Language:       c.config.Language,
	}
	if offline || c.config.Verifier.Engine == config.EngineRubric {
		return verifier.New(nil, opts)
	}

	completer, err := c.GetCompleter(ctx)
	if err != nil {
		logger.FromContext(ctx).Info("model verifier unavailable, using rubric", "reason", err)
		return verifier.New(nil, opts)
	}
	return verifier.New(completer, opts)
}

// GetCommitService assembles the pipeline service.
func (c *Container) GetCommitService(ctx context.Context, opts ServiceOptions) (*services.CommitService, error) {
	svcOpts := services.CommitServiceOptions{
		StagedOnly:   opts.StagedOnly,
		HistoryCount: c.config.HistoryCount,
	}

	if !opts.Generate {
		return services.NewCommitService(c.gitService, c.GetVerifier(ctx, opts.Offline), svcOpts), nil
	}

	completer, err := c.GetCompleter(ctx)
	if err != nil {
		return nil, err
	}
	gen := generator.New(completer, generator.Options{
		Rules:        c.config.CommitRules(),
		MaxDiffChars: c.config.Verifier.MaxDiffChars,
		Language:     c.config.Language,
	})

	var v ports.CommitVerifier
	if c.config.Verifier.Enabled {
		v = c.GetVerifier(ctx, opts.Offline)
	}
	return services.NewCommitService(c.gitService, v, svcOpts,
		services.WithGenerator(gen),
		services.WithUsage(completer)), nil
}

// GetAuthService returns the GitHub login service on the default credential file.
func (c *Container) GetAuthService() (*auth.Service, error) {
	store, err := auth.NewCredentialStore()
	if err != nil {
		return nil, err
	}
	return auth.NewService(store, auth.Options{ClientID: c.config.GitHub.ClientID}), nil
}

// Token returns the stored GitHub token, for authenticated pushes.
func (c *Container) Token(ctx context.Context) (string, error) {
	svc, err := c.GetAuthService()
	if err != nil {
		return "", err
	}
	return svc.Token(ctx)
}
