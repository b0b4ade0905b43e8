package auth

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/commitformat/internal/vcs"
)

type MockUserClient struct {
	mock.Mock
}

func (m *MockUserClient) AuthenticatedUser(ctx context.Context) (*vcs.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vcs.User), args.Error(1)
}
