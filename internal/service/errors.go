package service

import "errors"

// Common service errors returned by the identity service.
var (
	// ErrInvalidCredentials is returned on login failure. An unknown
	// username and a wrong password both produce this error so the caller
	// cannot tell which case occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when registering (or renaming to) a
	// username that another user already holds.
	ErrUsernameTaken = errors.New("username is not unique")
)
