package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/models"
	"github.com/thomas-vilte/commitformat/internal/ui"
)

// gitService is a minimal interface for testing purposes
type gitService interface {
	StageAll(ctx context.Context) error
	CreateCommit(ctx context.Context, message string) error
	GetCurrentBranch(ctx context.Context) (string, error)
	HasRemote(ctx context.Context) bool
	GetDefaultRemote(ctx context.Context) (string, error)
	IsHTTPSRemote(ctx context.Context, remote string) (bool, error)
	HasUpstream(ctx context.Context) bool
	Push(ctx context.Context, remote, branch string, setUpstream bool) error
	PushWithToken(ctx context.Context, token, remote, branch string, setUpstream bool) error
}

// tokenSource returns the stored GitHub token.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

// PushMode says whether to push after committing.
type PushMode int

const (
	PushAsk PushMode = iota
	PushAlways
	PushNever
)

// CommitHandler stages, commits and pushes an accepted commit message.
type CommitHandler struct {
	gitService gitService
	tokens     tokenSource
	prompter   ui.Prompter
	t          *i18n.Translations
	out        io.Writer
}

// NewCommitHandler creates the handler. tokens may be nil, in which case
// pushes rely on the git credential helper.
func NewCommitHandler(gitSvc gitService, tokens tokenSource, prompter ui.Prompter, t *i18n.Translations) *CommitHandler {
	return &CommitHandler{
		gitService: gitSvc,
		tokens:     tokens,
		prompter:   prompter,
		t:          t,
		out:        os.Stdout,
	}
}

// SetOutput redirects what the handler prints.
func (h *CommitHandler) SetOutput(w io.Writer) {
	h.out = w
}

// Commit stages every change, commits the formatted message and then pushes
// according to mode.
func (h *CommitHandler) Commit(ctx context.Context, commit models.CandidateCommit, mode PushMode) error {
	log := logger.FromContext(ctx)
	message := commit.Format()

	spinner := ui.NewSmartSpinner(h.t.GetMessage("ui.adding_to_staging", 0, nil))
	spinner.Start()
	if err := h.gitService.StageAll(ctx); err != nil {
		spinner.Stop()
		return err
	}
	spinner.UpdateMessage(h.t.GetMessage("ui.creating_commit", 0, nil))
	if err := h.gitService.CreateCommit(ctx, message); err != nil {
		spinner.Stop()
		return err
	}
	spinner.Stop()

	log.Info("commit created", "header", commit.Header())
	ui.PrintSuccess(h.out, h.t.GetMessage("ui.commit_created_successfully", 0, nil))
	_, _ = fmt.Fprintf(h.out, "\n   %s\n\n", commit.Header())

	return h.maybePush(ctx, mode)
}

func (h *CommitHandler) maybePush(ctx context.Context, mode PushMode) error {
	if mode == PushNever || !h.gitService.HasRemote(ctx) {
		return nil
	}
	if mode == PushAsk {
		ok, err := h.prompter.Confirm(h.t.GetMessage("push.ask", 0, nil))
		if err != nil || !ok {
			return err
		}
	}
	return h.Push(ctx)
}

// Push pushes the current branch to the default remote, setting the
// upstream when there is none. https remotes use the stored GitHub token
// when the user has logged in.
func (h *CommitHandler) Push(ctx context.Context) error {
	log := logger.FromContext(ctx)

	branch, err := h.gitService.GetCurrentBranch(ctx)
	if err != nil {
		return err
	}
	remote, err := h.gitService.GetDefaultRemote(ctx)
	if err != nil {
		return err
	}
	setUpstream := !h.gitService.HasUpstream(ctx)

	spinner := ui.NewSmartSpinner(h.t.GetMessage("push.pushing", 0, map[string]interface{}{
		"Remote": remote,
		"Branch": branch,
	}))
	spinner.Start()

	token := h.token(ctx, remote)
	if token != "" {
		err = h.gitService.PushWithToken(ctx, token, remote, branch, setUpstream)
	} else {
		err = h.gitService.Push(ctx, remote, branch, setUpstream)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	log.Info("pushed", "remote", remote, "branch", branch, "with_token", token != "", "set_upstream", setUpstream)
	ui.PrintSuccess(h.out, h.t.GetMessage("push.done", 0, map[string]interface{}{
		"Remote": remote,
		"Branch": branch,
	}))
	return nil
}

// token returns the GitHub token for an https remote, or "" to push with
// the ambient git credentials.
func (h *CommitHandler) token(ctx context.Context, remote string) string {
	if h.tokens == nil {
		return ""
	}
	https, err := h.gitService.IsHTTPSRemote(ctx, remote)
	if err != nil || !https {
		return ""
	}
	token, err := h.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotAuthenticated) {
			ui.PrintInfo(h.out, h.t.GetMessage("push.login_hint", 0, nil))
		} else {
			logger.FromContext(ctx).Warn("stored github token unavailable", "error", err)
		}
		return ""
	}
	return token
}
