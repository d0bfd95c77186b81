// Package benchmark holds cross-package benchmarks for tokauth: token
// generation and hashing, argon2id password hashing, and the full
// register/login/authenticate path over the memory and Badger stores.
//
// Run with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/
package benchmark
