package analyze

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/analyzer"
	"github.com/thomas-vilte/commitformat/internal/commands/cmdutil"
	"github.com/thomas-vilte/commitformat/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/di"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

// CommitService reads and analyzes the working tree changes.
type CommitService interface {
	Analyze(ctx context.Context) (*models.DiffAnalysis, string, error)
}

type ServiceProvider func(ctx context.Context, opts di.ServiceOptions) (CommitService, error)

type AnalyzeCommandFactory struct {
	services ServiceProvider
	stdin    io.Reader
	out      io.Writer
}

func NewAnalyzeCommandFactory(services ServiceProvider) *AnalyzeCommandFactory {
	return &AnalyzeCommandFactory{services: services, stdin: os.Stdin, out: os.Stdout}
}

func (f *AnalyzeCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "analyze",
		Usage:         t.GetMessage("analyze.usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "diff-file",
				Aliases: []string{"d"},
				Usage:   t.GetMessage("flags.diff_file", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "staged",
				Aliases: []string{"s"},
				Usage:   t.GetMessage("flags.staged", 0, nil),
			},
			&cli.StringFlag{
				Name:  "format",
				Value: cmdutil.FormatText,
				Usage: t.GetMessage("analyze.format_flag", 0, nil),
				Validator: func(s string) error {
					if !cmdutil.ValidFormat(s) {
						return fmt.Errorf("%s", t.GetMessage("analyze.invalid_format", 0, map[string]interface{}{"Format": s}))
					}
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			analysis, err := f.analyze(ctx, cmd)
			if err != nil {
				ui.HandleAppError(f.out, err, t)
				return err
			}

			logger.FromContext(ctx).Info("diff analyzed",
				"files_changed", analysis.Summary.FilesChanged,
				"symbols_count", len(analysis.ModifiedSymbols),
				"pattern", analysis.PrimaryPattern().Type)

			if format := cmd.String("format"); format != cmdutil.FormatText {
				return cmdutil.WriteStructured(f.out, format, analysis)
			}
			ui.PrintAnalysis(f.out, analysis, t)
			return nil
		},
	}
}

func (f *AnalyzeCommandFactory) analyze(ctx context.Context, cmd *cli.Command) (*models.DiffAnalysis, error) {
	if path := cmd.String("diff-file"); path != "" {
		diff, err := cmdutil.ReadInput(path, f.stdin)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(diff) == "" {
			return nil, domainErrors.ErrNoDiff
		}
		return analyzer.Analyze(diff), nil
	}

	svc, err := f.services(ctx, di.ServiceOptions{StagedOnly: cmd.Bool("staged"), Offline: true})
	if err != nil {
		return nil, err
	}
	analysis, _, err := svc.Analyze(ctx)
	return analysis, err
}
