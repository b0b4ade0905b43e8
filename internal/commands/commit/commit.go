package commit

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/commands/completion_helper"
	"github.com/thomas-vilte/commitformat/internal/commands/handler"
	"github.com/thomas-vilte/commitformat/internal/config"
	"github.com/thomas-vilte/commitformat/internal/di"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

// CommitService checks the typed message against the changes.
type CommitService interface {
	Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error)
}

type ServiceProvider func(ctx context.Context, opts di.ServiceOptions) (CommitService, error)

type commitHandler interface {
	Commit(ctx context.Context, commit models.CandidateCommit, mode handler.PushMode) error
}

type gitService interface {
	IsRepository(ctx context.Context) bool
	HasChanges(ctx context.Context) (bool, error)
}

// FormFunc asks the user for a commit.
type FormFunc func(rules models.CommitRules, t *i18n.Translations) (*models.CandidateCommit, error)

type CommitCommandFactory struct {
	services      ServiceProvider
	commitHandler commitHandler
	gitService    gitService
	prompter      ui.Prompter
	form          FormFunc
	out           io.Writer
}

func NewCommitCommandFactory(services ServiceProvider, commitHdlr commitHandler, gitSvc gitService, prompter ui.Prompter) *CommitCommandFactory {
	return &CommitCommandFactory{
		services:      services,
		commitHandler: commitHdlr,
		gitService:    gitSvc,
		prompter:      prompter,
		form:          ui.CommitForm,
		out:           os.Stdout,
	}
}

func (f *CommitCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "commit",
		Aliases:       []string{"c"},
		Usage:         t.GetMessage("commit.usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-verify",
				Usage: t.GetMessage("commit.no_verify_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: t.GetMessage("flags.offline", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "push",
				Aliases: []string{"p"},
				Usage:   t.GetMessage("flags.push", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "no-push",
				Usage: t.GetMessage("flags.no_push", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := f.run(ctx, cmd, t, cfg)
			if err != nil {
				ui.HandleAppError(f.out, err, t)
			}
			return err
		},
	}
}

func (f *CommitCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	log := logger.FromContext(ctx)

	if !f.gitService.IsRepository(ctx) {
		return domainErrors.ErrNotInGitRepo
	}
	hasChanges, err := f.gitService.HasChanges(ctx)
	if err != nil {
		return err
	}
	if !hasChanges {
		return domainErrors.ErrNoChanges
	}

	rules := cfg.CommitRules()
	commit, err := f.form(rules, t)
	if errors.Is(err, huh.ErrUserAborted) {
		ui.PrintWarning(f.out, t.GetMessage("commit.operation_canceled", 0, nil))
		return nil
	}
	if err != nil {
		return err
	}
	if err := commit.Validate(rules); err != nil {
		return err
	}
	log.Info("commit typed", "header", commit.Header())

	ui.PrintCommit(f.out, *commit, t)

	if !cmd.Bool("no-verify") {
		ok, err := f.verify(ctx, *commit, cmd.Bool("offline"), t)
		if err != nil || !ok {
			return err
		}
	} else {
		ok, err := f.prompter.Confirm(t.GetMessage("ui_preview.ask_confirm_commit", 0, nil))
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintWarning(f.out, t.GetMessage("commit.operation_canceled", 0, nil))
			return nil
		}
	}

	mode := handler.PushAsk
	switch {
	case cmd.Bool("no-push"):
		mode = handler.PushNever
	case cmd.Bool("push"):
		mode = handler.PushAlways
	}
	return f.commitHandler.Commit(ctx, *commit, mode)
}

// verify reports whether the commit may go ahead. A critical result or a
// failed verification needs the user's confirmation.
func (f *CommitCommandFactory) verify(ctx context.Context, commit models.CandidateCommit, offline bool, t *i18n.Translations) (bool, error) {
	svc, err := f.services(ctx, di.ServiceOptions{Offline: offline})
	if err != nil {
		return false, err
	}

	spinner := ui.NewSmartSpinner(t.GetMessage("verify.running", 0, nil))
	spinner.Start()
	result, err := svc.Verify(ctx, commit)
	spinner.Stop()

	question := t.GetMessage("ui_preview.ask_confirm_commit", 0, nil)
	if err != nil {
		ui.PrintVerificationUnavailable(f.out, err, t)
	} else {
		ui.PrintVerificationReport(f.out, result.Verification, t)
		if result.Verification.Blocking() {
			question = t.GetMessage("suggest.confirm_critical", 0, nil)
		}
	}

	ok, err := f.prompter.Confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		ui.PrintWarning(f.out, t.GetMessage("commit.operation_canceled", 0, nil))
	}
	return ok, nil
}
