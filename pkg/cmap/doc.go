// Package cmap provides a string-keyed concurrent map split into shards.
//
// Each shard is a plain map guarded by its own RWMutex, so writers to
// different shards do not contend. Keys are routed with hash/maphash using a
// per-map random seed.
//
//	m := cmap.New[string]()
//	m.Set("alice", "hash")
//	if !m.SetIfAbsent("alice", "other") { ... }
//
// Count locks shards one at a time, so it is not a consistent snapshot under
// concurrent writes.
package cmap
