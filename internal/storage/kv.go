package storage

import (
	"context"
	"errors"
	"time"
)

// Errors returned by KVEngine implementations.
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrKeyExists   = errors.New("storage: key already exists")
	ErrClosed      = errors.New("storage: engine closed")
)

// KVEngine is an embedded key-value store.
//
// Implementations must be safe for concurrent use and durable across
// restarts unless configured otherwise (for example in-memory mode for
// tests).
type KVEngine interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value []byte) error

	// SetIfAbsent stores value under key only if key is not present.
	// It returns ErrKeyExists otherwise. The check and the write are atomic.
	SetIfAbsent(ctx context.Context, key, value []byte) error

	// GC reclaims space held by stale values and reports how many
	// rewrite cycles ran.
	GC(ctx context.Context) (int, error)

	// Stats returns engine statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close flushes and releases the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// LSMSize is the LSM tree size in bytes.
	LSMSize uint64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize uint64

	// LastGCTime is the time of the last completed GC run (zero if none).
	LastGCTime time.Time

	// GCRuns is the number of value-log rewrites since open.
	GCRuns uint64
}

// TotalSize returns LSMSize + ValueLogSize.
func (s *KVStats) TotalSize() uint64 {
	return s.LSMSize + s.ValueLogSize
}

// BadgerConfig configures a BadgerEngine.
type BadgerConfig struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir string `koanf:"dir"`

	// InMemory keeps all data in memory. Intended for tests.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is the interval between automatic value-log GC runs.
	// Zero disables the background loop.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCDiscardRatio is the fraction of stale data in a value-log file
	// that makes it eligible for rewrite (0.0-1.0).
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`

	// CacheSize is the block cache size in bytes.
	CacheSize int64 `koanf:"cache_size"`

	// ValueLogFileSize is the max value-log file size in bytes.
	ValueLogFileSize int64 `koanf:"value_log_file_size"`

	// SyncWrites fsyncs after every write.
	SyncWrites bool `koanf:"sync_writes"`
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       10 * time.Minute,
		GCDiscardRatio:   0.5,
		CacheSize:        64 << 20,
		ValueLogFileSize: 256 << 20,
		SyncWrites:       true,
	}
}
