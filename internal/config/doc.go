// Package config loads and validates the taskhive server configuration.
//
// Configuration is a single YAML file. Values may reference environment
// variables with ${VAR_NAME} syntax, which are expanded before parsing.
// Duration fields (such as auth.token_ttl) are written as Go duration
// strings ("24h", "30m") and parsed during load.
//
// Example:
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//	database:
//	  path: "/var/lib/taskhive/taskhive.db"
//	auth:
//	  jwt_secret: "${TASKHIVE_JWT_SECRET}"
//	  token_ttl: "24h"
//	logging:
//	  level: "info"
//	  format: "text"
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// The JWT signing secret is loaded once at startup and held immutable for
// the lifetime of the process. There is no hot-reload: rotating the secret
// requires a restart and invalidates every outstanding token.
package config
