// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the normalized user name.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when the normalized user name is already taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by token issuance for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenGeneration wraps any other failure while issuing a token.
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrSignInFailed is returned by Login for every non-success sign-in outcome.
	ErrSignInFailed = errors.New("cannot authenticate user")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")
)
