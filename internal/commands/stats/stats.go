package stats

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/commands/cmdutil"
	"github.com/thomas-vilte/commitformat/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitformat/internal/config"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

const defaultCount = 50

type historySource interface {
	IsRepository(ctx context.Context) bool
	GetRecentCommitMessages(ctx context.Context, count int) ([]string, error)
}

type StatsCommand struct {
	git historySource
	out io.Writer
}

func NewStatsCommand(git historySource) *StatsCommand {
	return &StatsCommand{git: git, out: os.Stdout}
}

func (c *StatsCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "stats",
		Usage:         t.GetMessage("stats.usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   defaultCount,
				Usage:   t.GetMessage("stats.count_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("verify.json_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			stats, err := c.compute(ctx, cmd.Int("count"))
			if err != nil {
				ui.HandleAppError(c.out, err, t)
				return err
			}
			if cmd.Bool("json") {
				return cmdutil.WriteStructured(c.out, cmdutil.FormatJSON, stats)
			}
			ui.PrintCommitStats(c.out, stats, t)
			return nil
		},
	}
}

func (c *StatsCommand) compute(ctx context.Context, count int) (*models.CommitStats, error) {
	if !c.git.IsRepository(ctx) {
		return nil, domainErrors.ErrNotInGitRepo
	}
	if count <= 0 {
		count = defaultCount
	}

	messages, err := c.git.GetRecentCommitMessages(ctx, count)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeCommitStats(messages)
	logger.FromContext(ctx).Debug("commit stats computed",
		"requested", count,
		"total", stats.Total,
		"conventional", stats.Conventional)
	return stats, nil
}
