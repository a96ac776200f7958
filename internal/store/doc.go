// Package store provides SQLite-backed persistence for taskhive.
//
// The package defines two narrow interfaces, UserStore and TaskStore,
// both implemented by SQLiteStore. Handlers and the auth core depend on
// the interfaces, never on the concrete store, so tests can substitute
// MockStore without a database.
//
// # Entities
//
//   - User: registered account with a unique username and email, a bcrypt
//     password hash, and a role (USER or ADMIN).
//   - Task: a task owned by exactly one user. Deleting a user cascades to
//     their tasks.
//
// # Errors
//
// Lookups of missing rows return ErrNotFound. Unique constraint
// violations on users map to ErrUsernameExists / ErrEmailExists so
// callers can report conflicts without string-matching SQL errors.
//
// Timestamps are stored as RFC3339 UTC strings.
package store
