package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/config"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

func (c *ConfigCommandFactory) newEditCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: t.GetMessage("config.edit_usage", 0, nil),
		Action: func(ctx context.Context, _ *cli.Command) error {
			path := cfg.Path()
			if path == "" {
				err := domainErrors.ErrConfigRead.
					WithContext("reason", "no configuration file loaded").
					WithSuggestion("Run: commitformat config init")
				ui.HandleAppError(c.out, err, t)
				return err
			}
			if err := c.editor(ctx, path); err != nil {
				ui.HandleAppError(c.out, err, t)
				return err
			}
			return nil
		},
	}
}
