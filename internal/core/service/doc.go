// Package service holds the authentication policy of tokauth.
//
// AuthService orchestrates two storage capabilities, CredentialStore and
// TokenStore, which are declared here and implemented by the packages under
// internal/storage. The service keeps no state of its own beyond those two
// collaborators, so a single instance can be shared by any number of
// goroutines.
//
// Outcomes are reported as bool / comma-ok values. The service does not
// distinguish "no such user" from "store unavailable"; stores are expected to
// log their own failures before reporting them as absence.
package service
