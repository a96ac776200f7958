// ABOUTME: Tests for identity propagation through request contexts
// ABOUTME: Verifies anonymous defaults and first-resolution-wins semantics

package auth

import (
	"context"
	"testing"

	"github.com/taskhive/taskhive/internal/store"
)

func TestIdentityFromContext_Empty(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != nil {
		t.Errorf("IdentityFromContext() = %v, want nil", got)
	}
}

func TestWithIdentity_RoundTrip(t *testing.T) {
	identity := &Identity{ID: 7, Username: "alice", Role: store.RoleUser}
	ctx := WithIdentity(context.Background(), identity)

	got := IdentityFromContext(ctx)
	if got == nil {
		t.Fatal("IdentityFromContext() = nil, want identity")
	}
	if got.ID != 7 || got.Username != "alice" || got.Role != store.RoleUser {
		t.Errorf("IdentityFromContext() = %+v", got)
	}
}

func TestWithIdentity_FirstResolutionWins(t *testing.T) {
	first := &Identity{ID: 1, Username: "alice", Role: store.RoleAdmin}
	second := &Identity{ID: 2, Username: "bob", Role: store.RoleUser}

	ctx := WithIdentity(context.Background(), first)
	ctx = WithIdentity(ctx, second)

	got := IdentityFromContext(ctx)
	if got == nil || got.Username != "alice" {
		t.Errorf("IdentityFromContext() = %+v, want first identity", got)
	}
}

func TestIdentity_IsAdmin(t *testing.T) {
	admin := &Identity{ID: 1, Role: store.RoleAdmin}
	user := &Identity{ID: 2, Role: store.RoleUser}

	if !admin.IsAdmin() {
		t.Error("admin identity should report IsAdmin")
	}
	if user.IsAdmin() {
		t.Error("user identity should not report IsAdmin")
	}
}

func TestIdentity_CanViewTask(t *testing.T) {
	task := &store.Task{ID: 10, UserID: 7}

	owner := &Identity{ID: 7, Role: store.RoleUser}
	stranger := &Identity{ID: 8, Role: store.RoleUser}
	admin := &Identity{ID: 9, Role: store.RoleAdmin}

	if !owner.CanViewTask(task) {
		t.Error("owner should be able to view their own task")
	}
	if stranger.CanViewTask(task) {
		t.Error("non-owner should not be able to view another user's task")
	}
	if !admin.CanViewTask(task) {
		t.Error("admin should be able to view any task")
	}
}
