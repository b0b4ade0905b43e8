package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config.init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "global",
				Aliases: []string{"g"},
				Usage:   t.GetMessage("config.init_global_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("config.init_force_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir, err := c.initDir(ctx, cmd.Bool("global"))
			if err != nil {
				ui.HandleAppError(c.out, err, t)
				return err
			}

			path, err := config.InitConfig(dir, cfg, cmd.Bool("force"))
			if err != nil {
				ui.HandleAppError(c.out, err, t)
				return err
			}
			logger.FromContext(ctx).Info("configuration written", "path", path)
			ui.PrintSuccess(c.out, t.GetMessage("config.init_done", 0, struct{ Path string }{path}))
			return nil
		},
	}
}

// initDir is the home directory for --global, else the repository root,
// else the working directory.
func (c *ConfigCommandFactory) initDir(ctx context.Context, global bool) (string, error) {
	if global {
		return c.homeDir()
	}
	if root, err := c.repo.GetRepoRoot(ctx); err == nil && root != "" {
		return root, nil
	}
	return c.workDir()
}
