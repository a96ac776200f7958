// ABOUTME: Tests for the route-class gate middlewares
// ABOUTME: Covers 401 for anonymous and 403 for insufficient role

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskhive/taskhive/internal/store"
)

func gateRequest(t *testing.T, gate func(http.Handler) http.Handler, identity *Identity) (int, bool) {
	t.Helper()

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	if identity != nil {
		req = req.WithContext(WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()

	gate(handler).ServeHTTP(rec, req)
	return rec.Code, handlerCalled
}

func TestRequireUser(t *testing.T) {
	gate := RequireUser(nil)

	status, called := gateRequest(t, gate, nil)
	if status != http.StatusUnauthorized || called {
		t.Errorf("anonymous: status = %d, handler called = %v", status, called)
	}

	status, called = gateRequest(t, gate, &Identity{ID: 1, Role: store.RoleUser})
	if status != http.StatusOK || !called {
		t.Errorf("user: status = %d, handler called = %v", status, called)
	}

	status, called = gateRequest(t, gate, &Identity{ID: 2, Role: store.RoleAdmin})
	if status != http.StatusOK || !called {
		t.Errorf("admin: status = %d, handler called = %v", status, called)
	}
}

func TestRequireAdmin(t *testing.T) {
	gate := RequireAdmin(nil)

	status, called := gateRequest(t, gate, nil)
	if status != http.StatusUnauthorized || called {
		t.Errorf("anonymous: status = %d, handler called = %v", status, called)
	}

	status, called = gateRequest(t, gate, &Identity{ID: 1, Role: store.RoleUser})
	if status != http.StatusForbidden || called {
		t.Errorf("user: status = %d, handler called = %v", status, called)
	}

	status, called = gateRequest(t, gate, &Identity{ID: 2, Role: store.RoleAdmin})
	if status != http.StatusOK || !called {
		t.Errorf("admin: status = %d, handler called = %v", status, called)
	}
}

func TestRequireAdmin_CustomReject(t *testing.T) {
	var gotStatus int
	var gotMessage string
	gate := RequireAdmin(func(w http.ResponseWriter, status int, message string) {
		gotStatus = status
		gotMessage = message
		w.WriteHeader(status)
	})

	status, called := gateRequest(t, gate, &Identity{ID: 1, Role: store.RoleUser})
	if status != http.StatusForbidden || called {
		t.Errorf("status = %d, handler called = %v", status, called)
	}
	if gotStatus != http.StatusForbidden || gotMessage == "" {
		t.Errorf("reject called with status = %d, message = %q", gotStatus, gotMessage)
	}
}
