// Package kv implements the credential and token stores on top of a
// storage.KVEngine.
//
// Key layout:
//
//	cred:<username>      argon2id PHC hash of the password
//	token:<sha256 hex>   username the token was issued for
//
// Plaintext passwords and tokens are never written. Engine errors are
// logged and then reported to the caller as false / not found.
package kv
