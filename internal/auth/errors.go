// ABOUTME: Error taxonomy for token verification, credentials, and access decisions
// ABOUTME: Sentinel errors checked with errors.Is at the response boundary

package auth

import "errors"

// Token errors. All three mean the request proceeds anonymously, but they
// stay distinguishable for logging and tests.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Credential errors returned by Register and Login.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidRole       = errors.New("role must be USER or ADMIN")
	ErrUnknownUser       = errors.New("username does not exist")
	ErrBadPassword       = errors.New("incorrect password")
)

// Access errors produced by route gates and ownership checks.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)
