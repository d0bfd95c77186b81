// Package domain defines the core value types of tokauth.
//
// The types here carry no IO dependencies and no framework coupling:
//
//   - Credentials: a username/password pair as submitted by a caller
//   - Token: an opaque session token issued at login
//   - Errors: coded errors used by the outer layers (HTTP, CLI)
//
// The authentication core itself reports outcomes as booleans and
// absent values; DomainError is only used above the port boundary.
package domain
