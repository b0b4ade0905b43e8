package verify

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

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

// exitCritical is the exit status of --strict when the commit has critical issues.
const exitCritical = 2

// CommitService is the part of the pipeline the command drives.
type CommitService interface {
	Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error)
	VerifyDiff(ctx context.Context, commit models.CandidateCommit, diff string, analysis *models.DiffAnalysis) (*models.PipelineResult, error)
}

type ServiceProvider func(ctx context.Context, opts di.ServiceOptions) (CommitService, error)

type VerifyCommandFactory struct {
	services ServiceProvider
	stdin    io.Reader
	out      io.Writer
}

func NewVerifyCommandFactory(services ServiceProvider) *VerifyCommandFactory {
	return &VerifyCommandFactory{
		services: services,
		stdin:    os.Stdin,
		out:      os.Stdout,
	}
}

// verifyOutput is the --json document.
type verifyOutput struct {
	Commit       *models.CandidateCommit    `json:"commit"`
	Verification *models.VerificationResult `json:"verification"`
	Analysis     *models.DiffAnalysis       `json:"analysis,omitempty"`
	Usage        *models.TokenUsage         `json:"usage,omitempty"`
}

func (f *VerifyCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "verify",
		Aliases:       []string{"v"},
		Usage:         t.GetMessage("verify.usage", 0, nil),
		Description:   t.GetMessage("verify.description", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   t.GetMessage("verify.message_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("verify.file_flag", 0, nil),
			},
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
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("verify.json_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: t.GetMessage("verify.strict_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: t.GetMessage("flags.offline", 0, nil),
			},
		},
		Action: f.createAction(t, cfg),
	}
}

func (f *VerifyCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log := logger.FromContext(ctx)
		asJSON := cmd.Bool("json")

		message, err := f.readMessage(cmd)
		if err != nil {
			return f.fail(err, t, asJSON)
		}
		if cmdutil.IsGeneratedMessage(message) {
			log.Info("skipping generated message", "header", firstLine(message))
			if !asJSON {
				ui.PrintInfo(f.out, t.GetMessage("verify.skipped_generated", 0, nil))
			}
			return nil
		}

		commit, err := models.ParseConventionalCommit(message)
		if err != nil {
			return f.fail(err, t, asJSON)
		}
		if err := commit.Validate(cfg.CommitRules()); err != nil {
			return f.fail(err, t, asJSON)
		}

		svc, err := f.services(ctx, di.ServiceOptions{
			StagedOnly: cmd.Bool("staged"),
			Offline:    cmd.Bool("offline"),
		})
		if err != nil {
			return f.fail(err, t, asJSON)
		}

		spinner := ui.NewSmartSpinner(t.GetMessage("verify.running", 0, nil))
		spinner.Start()
		var result *models.PipelineResult
		if path := cmd.String("diff-file"); path != "" {
			var diff string
			if diff, err = cmdutil.ReadInput(path, f.stdin); err == nil {
				result, err = svc.VerifyDiff(ctx, *commit, diff, nil)
			}
		} else {
			result, err = svc.Verify(ctx, *commit)
		}
		spinner.Stop()
		if err != nil {
			return f.fail(err, t, asJSON)
		}

		log.Info("commit verified",
			"score", result.Verification.FactualAccuracy,
			"critical", result.Verification.HasCriticalIssues,
			"engine", result.Verification.Engine)

		if asJSON {
			if err := cmdutil.WriteStructured(f.out, cmdutil.FormatJSON, verifyOutput{
				Commit:       result.Commit,
				Verification: result.Verification,
				Analysis:     result.Analysis,
				Usage:        result.Usage,
			}); err != nil {
				return err
			}
		} else {
			ui.PrintCommit(f.out, *result.Commit, t)
			ui.PrintVerificationReport(f.out, result.Verification, t)
			ui.PrintTokenUsage(f.out, result.Usage, t)
		}

		if cmd.Bool("strict") && result.Verification.Blocking() {
			return cli.Exit(t.GetMessage("verify.strict_failed", 0, map[string]interface{}{
				"Score": result.Verification.FactualAccuracy,
			}), exitCritical)
		}
		return nil
	}
}

// readMessage takes -m, else --file (a git COMMIT_EDITMSG works).
func (f *VerifyCommandFactory) readMessage(cmd *cli.Command) (string, error) {
	if msg := strings.TrimSpace(cmd.String("message")); msg != "" {
		return msg, nil
	}
	path := cmd.String("file")
	if path == "" {
		return "", domainErrors.ErrNotConventional.
			WithContext("reason", "no message").
			WithSuggestion("commitformat verify -m \"feat: add x\"\ncommitformat verify --file .git/COMMIT_EDITMSG")
	}
	content, err := cmdutil.ReadInput(path, f.stdin)
	if err != nil {
		return "", err
	}
	return cmdutil.CommitMessageFromFile(content), nil
}

func (f *VerifyCommandFactory) fail(err error, t *i18n.Translations, asJSON bool) error {
	if asJSON {
		_ = cmdutil.WriteStructured(f.out, cmdutil.FormatJSON, map[string]string{"error": err.Error()})
		return err
	}
	ui.HandleAppError(f.out, err, t)
	return err
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
