package suggest

import (
	"context"
	"io"
	"os"
	"time"

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

// CommitService is the part of the pipeline the command drives.
type CommitService interface {
	Suggest(ctx context.Context, feedback *models.VerificationResult) (*models.PipelineResult, error)
	Verify(ctx context.Context, commit models.CandidateCommit) (*models.PipelineResult, error)
}

// ServiceProvider builds the pipeline once the flags are known.
type ServiceProvider func(ctx context.Context, opts di.ServiceOptions) (CommitService, error)

// commitHandler is a minimal interface for testing purposes
type commitHandler interface {
	Commit(ctx context.Context, commit models.CandidateCommit, mode handler.PushMode) error
}

type gitService interface {
	IsRepository(ctx context.Context) bool
}

type SuggestCommandFactory struct {
	services      ServiceProvider
	commitHandler commitHandler
	gitService    gitService
	prompter      ui.Prompter
	out           io.Writer
}

func NewSuggestCommandFactory(services ServiceProvider, commitHdlr commitHandler, gitSvc gitService, prompter ui.Prompter) *SuggestCommandFactory {
	return &SuggestCommandFactory{
		services:      services,
		commitHandler: commitHdlr,
		gitService:    gitSvc,
		prompter:      prompter,
		out:           os.Stdout,
	}
}

func (f *SuggestCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "suggest",
		Aliases:       []string{"ai"},
		Usage:         t.GetMessage("suggest.usage", 0, nil),
		Description:   t.GetMessage("suggest.description", 0, nil),
		Flags:         f.createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t),
	}
}

func (f *SuggestCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "staged",
			Aliases: []string{"s"},
			Usage:   t.GetMessage("flags.staged", 0, nil),
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
		&cli.BoolFlag{
			Name:  "offline",
			Usage: t.GetMessage("flags.offline", 0, nil),
		},
	}
}

func pushMode(cmd *cli.Command) handler.PushMode {
	switch {
	case cmd.Bool("no-push"):
		return handler.PushNever
	case cmd.Bool("push"):
		return handler.PushAlways
	default:
		return handler.PushAsk
	}
}

func (f *SuggestCommandFactory) createAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log := logger.FromContext(ctx)

		opts := di.ServiceOptions{
			StagedOnly: cmd.Bool("staged"),
			Offline:    cmd.Bool("offline"),
			Generate:   true,
		}
		log.Info("executing suggest command", "staged", opts.StagedOnly, "offline", opts.Offline)

		if !f.gitService.IsRepository(ctx) {
			ui.HandleAppError(f.out, domainErrors.ErrNotInGitRepo, t)
			return domainErrors.ErrNotInGitRepo
		}

		svc, err := f.services(ctx, opts)
		if err != nil {
			ui.HandleAppError(f.out, err, t)
			return err
		}

		ui.PrintSectionBanner(f.out, t.GetMessage("suggest.banner", 0, nil))

		var feedback *models.VerificationResult
		for attempt := 1; ; attempt++ {
			result, err := f.generate(ctx, svc, feedback, attempt, t)
			if err != nil {
				ui.HandleAppError(f.out, err, t)
				return err
			}
			f.render(result, t)

			action, err := f.prompter.SelectAction(result.Verification.Blocking())
			if err != nil {
				return err
			}
			log.Debug("suggestion action selected", "action", action, "attempt", attempt)

			switch action {
			case ui.ActionAccept, ui.ActionAcceptAnyway:
				return f.commit(ctx, *result.Commit, pushMode(cmd), t)
			case ui.ActionEdit:
				return f.editAndCommit(ctx, svc, *result.Commit, pushMode(cmd), t)
			case ui.ActionRegenerate:
				feedback = result.Verification
				ui.PrintInfo(f.out, t.GetMessage("suggest.regenerating", 0, nil))
			default:
				ui.PrintWarning(f.out, t.GetMessage("commit.operation_canceled", 0, nil))
				return nil
			}
		}
	}
}

func (f *SuggestCommandFactory) generate(ctx context.Context, svc CommitService, feedback *models.VerificationResult, attempt int, t *i18n.Translations) (*models.PipelineResult, error) {
	log := logger.FromContext(ctx)

	spinner := ui.NewSmartSpinner(t.GetMessage("suggest.analyzing", 0, nil))
	spinner.Start()
	start := time.Now()
	result, err := svc.Suggest(ctx, feedback)
	duration := time.Since(start)
	spinner.Stop()

	if err != nil {
		log.Error("failed to generate suggestion", "error", err, "attempt", attempt, "duration_ms", duration.Milliseconds())
		return nil, err
	}

	log.Info("suggestion generated", "attempt", attempt, "duration_ms", duration.Milliseconds())
	ui.PrintDuration(f.out, t.GetMessage("suggest.generated", 0, nil), duration)
	return result, nil
}

func (f *SuggestCommandFactory) render(result *models.PipelineResult, t *i18n.Translations) {
	if result.Analysis != nil {
		ui.PrintFilesTree(f.out, result.Analysis.Files, t.GetMessage("ui_preview.modified_files_header", 0, nil))
	}
	ui.PrintCommit(f.out, *result.Commit, t)

	switch {
	case result.VerificationAvailable():
		ui.PrintVerificationReport(f.out, result.Verification, t)
	case result.VerificationErr != nil:
		ui.PrintVerificationUnavailable(f.out, result.VerificationErr, t)
	default:
		ui.PrintInfo(f.out, t.GetMessage("verification.disabled", 0, nil))
	}
	ui.PrintTokenUsage(f.out, result.Usage, t)
}

func (f *SuggestCommandFactory) commit(ctx context.Context, commit models.CandidateCommit, mode handler.PushMode, t *i18n.Translations) error {
	if err := f.commitHandler.Commit(ctx, commit, mode); err != nil {
		ui.HandleAppError(f.out, err, t)
		return err
	}
	return nil
}

// editAndCommit lets the user rewrite the message. The edited text is
// verified again and a critical result needs an explicit confirmation.
func (f *SuggestCommandFactory) editAndCommit(ctx context.Context, svc CommitService, commit models.CandidateCommit, mode handler.PushMode, t *i18n.Translations) error {
	edited, err := f.prompter.Edit(commit.Format())
	if err != nil {
		ui.PrintError(f.out, t.GetMessage("ui_preview.error_editing_message", 0, map[string]interface{}{"Error": err}))
		return err
	}

	parsed, err := models.ParseConventionalCommit(edited)
	if err != nil {
		ui.HandleAppError(f.out, err, t)
		return err
	}

	result, err := svc.Verify(ctx, *parsed)
	switch {
	case err != nil:
		ui.PrintVerificationUnavailable(f.out, err, t)
	default:
		ui.PrintVerificationReport(f.out, result.Verification, t)
		if result.Verification.Blocking() {
			ok, err := f.prompter.Confirm(t.GetMessage("suggest.confirm_critical", 0, nil))
			if err != nil {
				return err
			}
			if !ok {
				ui.PrintWarning(f.out, t.GetMessage("commit.operation_canceled", 0, nil))
				return nil
			}
		}
	}

	return f.commit(ctx, *parsed, mode, t)
}
