// Package storage provides the embedded key-value engine behind the durable
// credential and token stores.
//
// KVEngine is a small byte-oriented interface; BadgerEngine implements it on
// top of dgraph-io/badger/v3 with a background value-log GC loop and
// Prometheus gauges. The store adapters in internal/storage/kv translate
// domain operations into KVEngine calls.
//
// Sub-packages:
//
//   - memory: map-backed stores for tests and single-process use
//   - kv: credential and token stores over a KVEngine
//   - postgres: credential and token stores over PostgreSQL
package storage
