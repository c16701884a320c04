package domain

import "errors"

// Sentinel errors for the identity domain. Use errors.Is() to check these.
var (
	// ErrInvalidCredentials indicates no user matches the username and password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername indicates another user already has the username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrLastAdmin indicates the operation would leave no admin user.
	ErrLastAdmin = errors.New("cannot delete the last admin")

	// ErrCannotDeleteSelf indicates a user tried to delete their own account.
	ErrCannotDeleteSelf = errors.New("cannot delete the current user")

	// ErrInvalidUser indicates a user draft violates domain constraints.
	ErrInvalidUser = errors.New("invalid user")

	// ErrNoCurrentUser indicates nobody is logged in.
	ErrNoCurrentUser = errors.New("no user is logged in")
)
