package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/thomas-vilte/commitformat/internal/auth"
	"github.com/thomas-vilte/commitformat/internal/config"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/i18n"
	"github.com/thomas-vilte/commitformat/internal/ui"
	"github.com/thomas-vilte/commitformat/internal/vcs"
)

// Service is the GitHub login flow the auth commands drive.
type Service interface {
	Login(ctx context.Context, onVerification func(auth.Verification)) (*auth.Credentials, error)
	AuthenticatedUser() (*vcs.User, error)
	Token(ctx context.Context) (string, error)
	Logout() error
}

type ServiceProvider func() (Service, error)

type AuthCommandFactory struct {
	services ServiceProvider
	out      io.Writer
}

func NewAuthCommandFactory(services ServiceProvider) *AuthCommandFactory {
	return &AuthCommandFactory{services: services, out: os.Stdout}
}

func (f *AuthCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: t.GetMessage("auth.usage", 0, nil),
		Commands: []*cli.Command{
			f.loginCommand(t),
			f.logoutCommand(t),
			f.statusCommand(t),
		},
	}
}

func (f *AuthCommandFactory) withService(t *i18n.Translations, fn func(ctx context.Context, cmd *cli.Command, svc Service) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		svc, err := f.services()
		if err == nil {
			err = fn(ctx, cmd, svc)
		}
		if err != nil {
			ui.HandleAppError(f.out, err, t)
		}
		return err
	}
}

func (f *AuthCommandFactory) loginCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: t.GetMessage("auth.login_usage", 0, nil),
		Action: f.withService(t, func(ctx context.Context, _ *cli.Command, svc Service) error {
			var spinner *ui.SmartSpinner
			creds, err := svc.Login(ctx, func(v auth.Verification) {
				ui.PrintInfo(f.out, t.GetMessage("auth.open_browser", 0, struct{ URI string }{v.URI}))
				_, _ = fmt.Fprintf(f.out, "\n   %s\n\n", ui.Accent.Sprint(v.UserCode))
				spinner = ui.NewSmartSpinner(t.GetMessage("auth.waiting", 0, nil))
				spinner.Start()
			})
			if spinner != nil {
				spinner.Stop()
			}
			if err != nil {
				return err
			}
			ui.PrintSuccess(f.out, t.GetMessage("auth.logged_in", 0, struct{ User string }{creds.GitHubUsername}))
			return nil
		}),
	}
}

func (f *AuthCommandFactory) logoutCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: t.GetMessage("auth.logout_usage", 0, nil),
		Action: f.withService(t, func(_ context.Context, _ *cli.Command, svc Service) error {
			if err := svc.Logout(); err != nil {
				return err
			}
			ui.PrintSuccess(f.out, t.GetMessage("auth.logged_out", 0, nil))
			return nil
		}),
	}
}

func (f *AuthCommandFactory) statusCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: t.GetMessage("auth.status_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: t.GetMessage("auth.check_flag", 0, nil),
			},
		},
		Action: f.withService(t, func(ctx context.Context, cmd *cli.Command, svc Service) error {
			user, err := svc.AuthenticatedUser()
			if errors.Is(err, domainErrors.ErrNotAuthenticated) {
				ui.PrintWarning(f.out, t.GetMessage("auth.not_logged_in", 0, nil))
				return nil
			}
			if err != nil {
				return err
			}

			if cmd.Bool("check") {
				if _, err := svc.Token(ctx); err != nil {
					if errors.Is(err, domainErrors.ErrNotAuthenticated) {
						ui.PrintWarning(f.out, t.GetMessage("auth.token_rejected", 0, nil))
						return nil
					}
					return err
				}
			}

			ui.PrintSuccess(f.out, t.GetMessage("auth.logged_in", 0, struct{ User string }{user.Login}))
			if user.Email != "" {
				ui.PrintKeyValue(f.out, t.GetMessage("auth.email", 0, nil), user.Email)
			}
			return nil
		}),
	}
}
