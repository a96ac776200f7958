// ABOUTME: Route-class gates enforcing authentication and role requirements
// ABOUTME: Must run after ResolveIdentity; ownership checks live on Identity

package auth

import (
	"encoding/json"
	"net/http"
)

// RejectFunc writes an access failure response. The server package
// supplies its structured response shape; a nil RejectFunc falls back to
// a minimal JSON body.
type RejectFunc func(w http.ResponseWriter, status int, message string)

// defaultReject writes a bare JSON error when no RejectFunc is supplied.
func defaultReject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

// RequireUser creates an HTTP middleware that rejects anonymous requests
// with 401. Any authenticated identity passes, regardless of role.
func RequireUser(reject RejectFunc) func(http.Handler) http.Handler {
	if reject == nil {
		reject = defaultReject
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()) == nil {
				reject(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates an HTTP middleware that rejects anonymous requests
// with 401 and authenticated non-admin identities with 403.
// Role gating runs before any ownership logic in the handler.
func RequireAdmin(reject RejectFunc) func(http.Handler) http.Handler {
	if reject == nil {
		reject = defaultReject
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity == nil {
				reject(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			if !identity.IsAdmin() {
				reject(w, http.StatusForbidden, "Only ADMIN may access this resource!")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
