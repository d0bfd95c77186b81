// Package token provides session token generation and hashing.
//
// Two token shapes are supported:
//
//   - Opaque: a random (version 4) UUID in its canonical 36-character text
//     form. This is what the token stores hand out by default.
//   - Random: Base64 RawURL encoded bytes read from crypto/rand, for callers
//     that want a longer or denser token.
//
// Hash produces the hex SHA-256 digest used wherever a token is persisted;
// Verify compares in constant time.
package token
