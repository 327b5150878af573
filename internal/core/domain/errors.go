package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates a subscription pattern that does not
	// compile into a matching rule. This is the only core error surfaced
	// to callers; everything else degrades to empty data plus a log line.
	ErrInvalidPattern = errors.New("invalid subscription pattern")

	// Authentication errors.

	// ErrAuthRequired indicates the caller presented no credentials.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the presented credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTokenExpired indicates a session token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrUserExists indicates a username is already registered.
	ErrUserExists = errors.New("user already exists")
)
