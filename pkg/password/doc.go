// Package password hashes and verifies passwords with argon2id.
//
// Hashes are encoded in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// so that the parameters travel with the hash and can be raised later
// without invalidating existing records.
package password
