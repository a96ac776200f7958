// ABOUTME: Tests for the identity-resolving middleware
// ABOUTME: Confirms anonymous pass-through on every failure path

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/store"
)

func newMiddlewareFixture(t *testing.T) (*store.MockStore, *JWTVerifier, func(http.Handler) http.Handler) {
	t.Helper()

	users := store.NewMockStore()
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	return users, verifier, ResolveIdentity(users, verifier, nil)
}

func registerMockUser(t *testing.T, users *store.MockStore, username string, role store.Role) *store.User {
	t.Helper()

	user := &store.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

// resolveRequest runs one request through the middleware and returns the
// identity the inner handler observed.
func resolveRequest(t *testing.T, middleware func(http.Handler) http.Handler, authHeader string) *Identity {
	t.Helper()

	var got *Identity
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if !handlerCalled {
		t.Fatal("middleware must always pass control onward")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("middleware must not write a response, got status %d", rec.Code)
	}
	return got
}

func TestResolveIdentity_ValidToken(t *testing.T) {
	users, verifier, middleware := newMiddlewareFixture(t)
	user := registerMockUser(t, users, "alice", store.RoleAdmin)

	token, err := verifier.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	identity := resolveRequest(t, middleware, "Bearer "+token)
	if identity == nil {
		t.Fatal("expected identity in context")
	}
	if identity.ID != user.ID || identity.Username != "alice" || identity.Role != store.RoleAdmin {
		t.Errorf("identity = %+v", identity)
	}
}

func TestResolveIdentity_AnonymousPassThrough(t *testing.T) {
	users, verifier, middleware := newMiddlewareFixture(t)
	registerMockUser(t, users, "alice", store.RoleUser)

	expired, _ := verifier.Generate("alice", -time.Hour)
	staleSubject, _ := verifier.Generate("ghost", time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "lowercase scheme", header: "bearer sometoken"},
		{name: "wrong scheme", header: "Basic YWxpY2U6cHc="},
		{name: "missing space", header: "Bearersometoken"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "stale subject", header: "Bearer " + staleSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if identity := resolveRequest(t, middleware, tt.header); identity != nil {
				t.Errorf("identity = %+v, want anonymous", identity)
			}
		})
	}
}

func TestResolveIdentity_StoreFailureStaysAnonymous(t *testing.T) {
	users, verifier, middleware := newMiddlewareFixture(t)
	registerMockUser(t, users, "alice", store.RoleUser)

	token, err := verifier.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	users.ForcedErr = context.DeadlineExceeded
	if identity := resolveRequest(t, middleware, "Bearer "+token); identity != nil {
		t.Errorf("identity = %+v, want anonymous on store failure", identity)
	}
}

func TestResolveIdentity_DoesNotOverrideExistingIdentity(t *testing.T) {
	users, verifier, middleware := newMiddlewareFixture(t)
	registerMockUser(t, users, "alice", store.RoleUser)

	token, err := verifier.Generate("alice", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	preset := &Identity{ID: 99, Username: "preset", Role: store.RoleAdmin}

	var got *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req = req.WithContext(WithIdentity(req.Context(), preset))
	req.Header.Set("Authorization", "Bearer "+token)

	middleware(handler).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Username != "preset" {
		t.Errorf("identity = %+v, want the already-attached identity", got)
	}
}
