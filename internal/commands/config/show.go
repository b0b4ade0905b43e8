package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/commands/cmdutil"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("verify.json_flag", 0, nil),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("json") {
				return cmdutil.WriteStructured(c.out, cmdutil.FormatJSON, cfg.Masked())
			}

			source := cfg.Path()
			if source == "" {
				source = t.GetMessage("config.defaults_only", 0, nil)
			}
			ui.PrintKeyValue(c.out, t.GetMessage("config.source", 0, nil), source)
			return config.WriteYAML(c.out, cfg)
		},
	}
}
