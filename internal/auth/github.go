// Package auth logs users into GitHub with the OAuth device flow and keeps
// the resulting token for authenticated pushes.
package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/logger"
	"github.com/thomas-vilte/commitformat/internal/vcs"
	githubvcs "github.com/thomas-vilte/commitformat/internal/vcs/github"
)

// GitHub OAuth endpoints, including the device authorization one.
var GitHubEndpoint = oauth2.Endpoint{
	AuthURL:       "https://github.com/login/oauth/authorize",
	TokenURL:      "https://github.com/login/oauth/access_token",
	DeviceAuthURL: "https://github.com/login/device/code",
	AuthStyle:     oauth2.AuthStyleInParams,
}

// Scopes requested at login: pushing to repositories and reading the email.
var Scopes = []string{"repo", "user:email"}

// Verification is what the user needs to authorize the device.
type Verification struct {
	URI       string
	UserCode  string
	ExpiresAt time.Time
}

// UserClientFactory builds a client authenticated with token.
type UserClientFactory func(token string) (vcs.UserClient, error)

type Options struct {
	ClientID string
	// Endpoint overrides GitHubEndpoint.
	Endpoint *oauth2.Endpoint
	// NewUserClient overrides the go-github client factory.
	NewUserClient UserClientFactory
}

type Service struct {
	oauth     *oauth2.Config
	store     *CredentialStore
	newClient UserClientFactory
}

func NewService(store *CredentialStore, opts Options) *Service {
	endpoint := GitHubEndpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	newClient := opts.NewUserClient
	if newClient == nil {
		newClient = func(token string) (vcs.UserClient, error) {
			return githubvcs.NewGitHubClient(token, "")
		}
	}
	return &Service{
		oauth: &oauth2.Config{
			ClientID: opts.ClientID,
			Endpoint: endpoint,
			Scopes:   Scopes,
		},
		store:     store,
		newClient: newClient,
	}
}

// Login runs the device flow: it requests a device code, hands the
// verification details to onVerification, polls until the user authorizes
// (or ctx ends), looks the user up and saves the credentials.
func (s *Service) Login(ctx context.Context, onVerification func(Verification)) (*Credentials, error) {
	log := logger.FromContext(ctx)

	da, err := s.oauth.DeviceAuth(ctx)
	if err != nil {
		return nil, domainErrors.ErrDeviceFlow.WithError(err).WithContext("step", "device code")
	}
	if onVerification != nil {
		onVerification(Verification{URI: da.VerificationURI, UserCode: da.UserCode, ExpiresAt: da.Expiry})
	}

	log.Debug("waiting for device authorization", "interval", da.Interval)
	token, err := s.oauth.DeviceAccessToken(ctx, da)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domainErrors.ErrDeviceFlow.WithError(err).WithContext("step", "access token")
	}

	user, err := s.lookup(ctx, token.AccessToken)
	if err != nil {
		return nil, domainErrors.ErrDeviceFlow.WithError(err).WithContext("step", "user lookup")
	}

	creds := Credentials{
		GitHubToken:    token.AccessToken,
		GitHubUsername: user.Login,
		GitHubEmail:    user.Email,
	}
	if err := s.store.Save(creds); err != nil {
		return nil, err
	}
	log.Info("github login completed", "user", user.Login)
	return &creds, nil
}

func (s *Service) lookup(ctx context.Context, token string) (*vcs.User, error) {
	client, err := s.newClient(token)
	if err != nil {
		return nil, err
	}
	return client.AuthenticatedUser(ctx)
}

// ValidateToken reports whether GitHub still accepts token.
func (s *Service) ValidateToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := s.lookup(ctx, token)
	return err == nil
}

// AuthenticatedUser returns the stored identity without calling GitHub.
func (s *Service) AuthenticatedUser() (*vcs.User, error) {
	creds := s.store.Load()
	if !creds.HasGitHubToken() {
		return nil, domainErrors.ErrNotAuthenticated
	}
	return &vcs.User{Login: creds.GitHubUsername, Email: creds.GitHubEmail}, nil
}

// Token returns the stored token once GitHub has accepted it. A rejected
// token is cleared from the store.
func (s *Service) Token(ctx context.Context) (string, error) {
	creds := s.store.Load()
	if !creds.HasGitHubToken() {
		return "", domainErrors.ErrNotAuthenticated
	}

	if _, err := s.lookup(ctx, creds.GitHubToken); err != nil {
		if errors.Is(err, domainErrors.ErrGitHubTokenInvalid) {
			logger.FromContext(ctx).Warn("stored github token rejected, clearing it")
			if clearErr := s.store.Clear(); clearErr != nil {
				return "", clearErr
			}
			return "", domainErrors.ErrNotAuthenticated.WithError(err)
		}
		return "", err
	}
	return creds.GitHubToken, nil
}

func (s *Service) Logout() error {
	return s.store.Clear()
}
