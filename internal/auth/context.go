// ABOUTME: Request-scoped identity for tracking the authenticated user through handlers
// ABOUTME: Provides WithIdentity/IdentityFromContext for propagation via context

package auth

import (
	"context"

	"github.com/taskhive/taskhive/internal/store"
)

// Identity is the authenticated principal resolved from a bearer token.
// It is a plain value: tests construct it directly instead of going
// through the token path.
type Identity struct {
	ID       int64
	Username string
	Role     store.Role
}

// IsAdmin returns true if the identity holds the ADMIN role.
func (i *Identity) IsAdmin() bool {
	return i.Role == store.RoleAdmin
}

// CanViewTask reports whether the identity may read the given task.
// Admins see everything; other users only their own tasks.
func (i *Identity) CanViewTask(task *store.Task) bool {
	return i.IsAdmin() || task.UserID == i.ID
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the identity attached.
// If an identity is already present the context is returned unchanged:
// the first resolution wins.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if IdentityFromContext(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the identity from the context, returning
// nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}
