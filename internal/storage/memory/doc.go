// Package memory provides in-process implementations of the credential and
// token stores.
//
// Both stores keep their data in pkg/cmap sharded maps and compare
// passwords in plaintext, so they are meant for tests, local development and
// single-process deployments where nothing needs to survive a restart.
package memory
