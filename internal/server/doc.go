// ABOUTME: Package documentation for the HTTP server
// ABOUTME: Describes the route classes and the response envelope

// Package server exposes the task-management API over HTTP.
//
// All endpoints answer with one envelope shape: success flag, message,
// optional data, and a Unix-millisecond timestamp. Identity resolution
// happens once per request in the auth middleware; route-class gates
// enforce who may reach a handler, and per-resource checks (task
// ownership, admin-only mutations) live in the handlers themselves.
//
// Error translation is centralized: handlers return domain errors to a
// single translator that maps them to HTTP statuses. Panics and
// unclassified failures become a fixed-message 500 with the detail
// confined to the log.
package server
