package config

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

type repoLocator interface {
	GetRepoRoot(ctx context.Context) (string, error)
}

// EditorFunc opens path in the user's editor.
type EditorFunc func(ctx context.Context, path string) error

type ConfigCommandFactory struct {
	repo    repoLocator
	homeDir func() (string, error)
	workDir func() (string, error)
	editor  EditorFunc
	out     io.Writer
}

func NewConfigCommandFactory(repo repoLocator) *ConfigCommandFactory {
	return &ConfigCommandFactory{
		repo:    repo,
		homeDir: os.UserHomeDir,
		workDir: os.Getwd,
		editor:  func(_ context.Context, path string) error { return ui.OpenEditor(path) },
		out:     os.Stdout,
	}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
			c.newEditCommand(t, cfg),
		},
	}
}
