// Package main provides the entry point for tokauth-server.
//
// The server exposes register, login and authenticate over an HTTP JSON
// API, backed by one of three stores selected by storage.backend:
//
//   - memory: process-local maps, lost on restart
//   - badger: an embedded Badger database
//   - postgres: a PostgreSQL database, migrated at startup
//
// Usage:
//
//	tokauth-server [flags]
//	tokauth-server --config /etc/tokauth/config.yaml
//
// Every config key can be overridden from the environment with the
// TOKAUTH_ prefix, e.g. TOKAUTH_STORAGE_BACKEND=badger. Changes to
// log.level in the config file apply without a restart.
package main
