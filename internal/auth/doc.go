// Package auth provides authentication and authorization for taskhive.
//
// # Tokens
//
// Clients authenticate with stateless JWT bearer tokens signed with HS256
// using the configured jwt_secret:
//
//	token, err := verifier.Generate(username, ttl)
//	subject, err := verifier.Verify(token)
//
// Tokens carry only the subject username, issue time, and expiry. There
// is no server-side session or revocation list; a token stays valid
// until it expires or the signing secret rotates.
//
// # Identity resolution
//
// ResolveIdentity runs once per request, before routing. It reads the
// Authorization header, verifies the token, and looks the subject up in
// the user store. On success an Identity value is attached to the
// request context; on any failure the request simply stays anonymous.
// Verification failures never abort the pipeline and never reach
// handlers: whether an anonymous request is acceptable is decided by the
// route gates, not the resolver.
//
// # Route gates
//
// RequireUser and RequireAdmin reject anonymous requests with 401 and
// (for RequireAdmin) authenticated non-admins with 403. Ownership checks
// for individual resources live on Identity (CanViewTask) and run inside
// handlers, after role gating has passed.
//
// # Credentials
//
// Service implements registration (uniqueness checks, role assignment,
// bcrypt hashing) and login (credential check, token issuance) on top of
// a narrow CredentialStore interface.
package auth
