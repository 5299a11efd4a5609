package application

import "errors"

var (
	// ErrInvalidCredentials is returned for any username/password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers missing, malformed, expired and revoked tokens.
	ErrUnauthenticated = errors.New("admin session required")
)
