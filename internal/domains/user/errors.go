package user

import "errors"

// Repository-level errors
var (
	// Not Found
	ErrUserNotFound = errors.New("user not found")

	// Conflict (unique constraints)
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")

	// Follow state
	ErrNotFollowing = errors.New("not following this user")
)

// Service-level (business logic) errors
var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")

	// Follow rules
	ErrSelfFollow = errors.New("cannot follow yourself")
)
