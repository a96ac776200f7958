// ABOUTME: Registration and login against the credential store
// ABOUTME: Issues bearer tokens on successful login; fully stateless

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskhive/taskhive/internal/store"
)

// CredentialStore is the subset of the user store the auth service needs.
type CredentialStore interface {
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateUser(ctx context.Context, user *store.User) error
}

// Service handles registration and login. It holds no per-user state:
// a successful login yields a self-contained token and nothing else.
type Service struct {
	users    CredentialStore
	tokens   TokenIssuer
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates an auth service issuing tokens with the given TTL.
func NewService(users CredentialStore, tokens TokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger.With("component", "auth"),
	}
}

// Register creates a new account. The requested role defaults to USER
// when empty and is upcased before validation, so "admin" registers an
// ADMIN. The password is bcrypt-hashed before it touches the store.
// No token is issued; the client logs in separately.
func (s *Service) Register(ctx context.Context, username, email, password, requestedRole string) (*store.User, error) {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	role := store.RoleUser
	if requestedRole != "" {
		role = store.Role(strings.ToUpper(requestedRole))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// The store re-checks uniqueness under its own lock, so a racing
		// registration still maps to the duplicate errors.
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			return nil, ErrDuplicateUsername
		case errors.Is(err, store.ErrEmailExists):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("registered user", "username", username, "role", role)
	return user, nil
}

// Login verifies the credentials and issues a bearer token bound to the
// username. The unknown-user and bad-password cases are reported
// distinctly, matching the API's historical behavior.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			dummyCompare(password)
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrBadPassword) {
			return "", ErrBadPassword
		}
		return "", err
	}

	token, err := s.tokens.Generate(user.Username, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", "username", username)
	return token, nil
}
