package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
	"github.com/thomas-vilte/commitformat/internal/vcs"
)

var _ vcs.UserClient = (*GitHubClient)(nil)

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
	ListEmails(ctx context.Context, opts *github.ListOptions) ([]*github.UserEmail, *github.Response, error)
}

type GitHubClient struct {
	usersService UsersService
}

// NewGitHubClient creates a client authenticated with token. A non-empty
// apiURL points it at a GitHub Enterprise or test server.
func NewGitHubClient(token, apiURL string) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if apiURL != "" {
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		if base.Path == "" || base.Path[len(base.Path)-1] != '/' {
			base.Path += "/"
		}
		client.BaseURL = base
	}
	return NewGitHubClientWithServices(client.Users), nil
}

func NewGitHubClientWithServices(usersService UsersService) *GitHubClient {
	return &GitHubClient{usersService: usersService}
}

// AuthenticatedUser returns the login of the token owner and their primary
// email, falling back to the first listed one. A rejected token yields
// ErrGitHubTokenInvalid.
func (ghc *GitHubClient) AuthenticatedUser(ctx context.Context) (*vcs.User, error) {
	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", "get authenticated user")
		}
		return nil, fmt.Errorf("error obtaining authenticated user: %w", err)
	}

	if user.GetLogin() == "" {
		return nil, fmt.Errorf("authenticated user has no login")
	}

	result := &vcs.User{Login: user.GetLogin(), Name: user.GetName(), Email: user.GetEmail()}

	emails, _, err := ghc.usersService.ListEmails(ctx, &github.ListOptions{PerPage: 100})
	if err != nil {
		// the public profile email is good enough when the scope is missing
		return result, nil
	}
	if email := primaryEmail(emails); email != "" {
		result.Email = email
	}
	return result, nil
}

func primaryEmail(emails []*github.UserEmail) string {
	for _, e := range emails {
		if e.GetPrimary() {
			return e.GetEmail()
		}
	}
	if len(emails) > 0 {
		return emails[0].GetEmail()
	}
	return ""
}
