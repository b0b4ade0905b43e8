package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	authcmd "github.com/thomas-vilte/commitformat/internal/commands/auth"
	"github.com/thomas-vilte/commitformat/internal/commands/analyze"
	"github.com/thomas-vilte/commitformat/internal/commands/commit"
	"github.com/thomas-vilte/commitformat/internal/commands/completion"
	configcmd "github.com/thomas-vilte/commitformat/internal/commands/config"
	"github.com/thomas-vilte/commitformat/internal/commands/handler"
	"github.com/thomas-vilte/commitformat/internal/commands/registry"
	"github.com/thomas-vilte/commitformat/internal/commands/stats"
	"github.com/thomas-vilte/commitformat/internal/commands/suggest"
	"github.com/thomas-vilte/commitformat/internal/commands/verify"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/di"
	"github.com/thomas-vilte/commitformat/internal/git"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/ui"
	"github.com/thomas-vilte/commitformat/internal/version"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("error starting commitformat: %v", err)
	}

	// Commands report their own errors.
	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, error) {
	gitService := git.NewGitService()

	cfgApp, cfgErr := loadConfig(gitService, "")
	if cfgErr != nil {
		cfgApp = config.DefaultConfig()
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer(cfgApp, translations)
	container.SetGitService(gitService)

	prompter := ui.NewTerminalPrompter(translations)
	commitHandler := handler.NewCommitHandler(gitService, container, prompter, translations)

	suggestServices := func(ctx context.Context, opts di.ServiceOptions) (suggest.CommitService, error) {
		return container.GetCommitService(ctx, opts)
	}
	verifyServices := func(ctx context.Context, opts di.ServiceOptions) (verify.CommitService, error) {
		return container.GetCommitService(ctx, opts)
	}
	analyzeServices := func(ctx context.Context, opts di.ServiceOptions) (analyze.CommitService, error) {
		return container.GetCommitService(ctx, opts)
	}
	commitServices := func(ctx context.Context, opts di.ServiceOptions) (commit.CommitService, error) {
		return container.GetCommitService(ctx, opts)
	}
	authServices := func() (authcmd.Service, error) {
		return container.GetAuthService()
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"suggest", suggest.NewSuggestCommandFactory(suggestServices, commitHandler, gitService, prompter)},
		{"verify", verify.NewVerifyCommandFactory(verifyServices)},
		{"analyze", analyze.NewAnalyzeCommandFactory(analyzeServices)},
		{"commit", commit.NewCommitCommandFactory(commitServices, commitHandler, gitService, prompter)},
		{"stats", stats.NewStatsCommand(gitService)},
		{"auth", authcmd.NewAuthCommandFactory(authServices)},
		{"config", configcmd.NewConfigCommandFactory(gitService)},
		{"completion", completion.NewCompletionCommand()},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, err
		}
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help.usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd.Root())
		},
	})

	return &cli.Command{
		Name:                  "commitformat",
		Usage:                 translations.GetMessage("app.usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app.description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: translations.GetMessage("flags.config", 0, nil),
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: translations.GetMessage("flags.lang", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flags.debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   translations.GetMessage("flags.verbose", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			log := logger.FromContext(ctx)

			if path := cmd.String("config"); path != "" {
				loaded, err := loadConfig(gitService, path)
				if err != nil {
					ui.HandleAppError(os.Stderr, err, translations)
					return ctx, err
				}
				*cfgApp = *loaded
				cfgErr = nil
				if err := translations.SetLanguage(cfgApp.Language); err != nil {
					log.Warn("configured language not available", "language", cfgApp.Language)
				}
			}
			if cfgErr != nil {
				ui.PrintWarning(os.Stderr, translations.GetMessage("root.config_defaults", 0, nil))
				ui.HandleAppError(os.Stderr, cfgErr, translations)
			}

			if lang := cmd.String("lang"); lang != "" {
				if err := translations.SetLanguage(lang); err != nil {
					ui.PrintWarning(os.Stderr, translations.GetMessage("root.invalid_lang", 0, map[string]interface{}{"Lang": lang}))
				}
			}

			log.Debug("configuration resolved", "path", cfgApp.Path(), "language", cfgApp.Language)
			return ctx, nil
		},
	}, nil
}

// loadConfig resolves the configuration for the current directory, or
// reads path when given.
func loadConfig(gitService *git.GitService, path string) (*config.Config, error) {
	opts := config.LoadOptions{Path: path}
	if path == "" {
		opts.WorkDir, _ = os.Getwd()
		opts.HomeDir, _ = os.UserHomeDir()
		if gitService.IsRepository(context.Background()) {
			opts.RepoRoot, _ = gitService.GetRepoRoot(context.Background())
		}
	}
	return config.LoadConfig(opts)
}
