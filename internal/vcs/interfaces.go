package vcs

import (
	"context"
)

// User is the account behind a version-control token.
type User struct {
	Login string
	Name  string
	Email string
}

// UserClient reads the identity of an authenticated version-control account.
type UserClient interface {
	// AuthenticatedUser returns the owner of the token, with their primary email.
	AuthenticatedUser(ctx context.Context) (*User, error)
}
