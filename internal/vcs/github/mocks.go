package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	if args.Get(0) == nil {
		return nil, resp, args.Error(2)
	}
	return args.Get(0).(*github.User), resp, args.Error(2)
}

func (m *MockUserService) ListEmails(ctx context.Context, opts *github.ListOptions) ([]*github.UserEmail, *github.Response, error) {
	args := m.Called(ctx, opts)
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	if args.Get(0) == nil {
		return nil, resp, args.Error(2)
	}
	return args.Get(0).([]*github.UserEmail), resp, args.Error(2)
}
