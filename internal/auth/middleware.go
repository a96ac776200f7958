// ABOUTME: HTTP middleware that resolves a bearer token to a request identity
// ABOUTME: Never rejects; invalid or stale tokens leave the request anonymous

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive/internal/store"
)

// bearerPrefix is the exact, case-sensitive scheme prefix required in the
// Authorization header.
const bearerPrefix = "Bearer "

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and false if the header is absent or not a bearer
// credential.
func extractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// ResolveIdentity creates an HTTP middleware that resolves the bearer
// token on each request to an Identity and attaches it to the request
// context. It runs once per request, before routing.
//
// The middleware never rejects: missing credentials, a token that fails
// verification, or a subject that no longer exists all leave the request
// anonymous and pass control onward. Route gates decide rejection.
func ResolveIdentity(users store.UserStore, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r) // Continue as anonymous
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				// Malformed, bad signature, and expired are all absorbed
				// here; they stay distinguishable in the log only.
				logger.Debug("rejected bearer token", "reason", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByUsername(r.Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// Token outlived its account
					logger.Debug("token subject no longer exists", "subject", subject)
				} else {
					logger.Warn("identity lookup failed", "subject", subject, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			identity := &Identity{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
