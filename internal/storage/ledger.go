// Package storage provides the ledger storage collaborators for nsremover.
//
// This file defines the Ledger contract consumed by the deletion engine and
// the configuration used to open one of the embedded engines.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Engine names accepted by KVConfig.Engine.
const (
	EngineBadger = "badger"
	EngineBolt   = "bbolt"
	EngineMemory = "memory"
)

// Common errors
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrClosed        = errors.New("ledger closed")
	ErrEmptyKey      = errors.New("key must not be empty")
	ErrUnknownEngine = errors.New("unknown storage engine")
)

// Iterator is a forward, finite cursor over the entries of a prefix scan.
//
// Usage:
//
//	it, err := ledger.OpenPrefixScan(ctx, prefix)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//	    use(it.Key(), it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Key and Value return copies that stay valid after Next. Close is
// idempotent and may be called after partial consumption.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

// Ledger is the storage collaborator of the deletion engine.
//
// Implementations must be safe for concurrent use, and deleting a key while
// an iterator over the same prefix is open must not disturb that iterator.
// Every write commits on its own; callers that need wider atomicity wrap
// the ledger in their own transaction boundary.
type Ledger interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// OpenPrefixScan opens an ordered iterator over keys starting with prefix.
	// A nil prefix scans the whole keyspace.
	OpenPrefixScan(ctx context.Context, prefix []byte) (Iterator, error)

	// Close releases the ledger.
	Close() error
}

// KVConfig configures an embedded ledger engine.
type KVConfig struct {
	// Engine specifies the engine type ("badger", "bbolt", "memory").
	// Default: "badger"
	Engine string

	// Dir is the storage directory (file path prefix for bbolt).
	Dir string

	// Badger-specific configuration
	Badger BadgerConfig

	// Bolt-specific configuration
	Bolt BoltConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// InMemory runs Badger without touching disk (tests, drills).
	InMemory bool

	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 1GB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// SyncWrites enables fsync after each write.
	// Default: true, a sweep's deletes should survive a crash
	SyncWrites bool
}

// BoltConfig contains bbolt-specific parameters.
type BoltConfig struct {
	// Bucket holds every ledger record.
	// Default: "ledger"
	Bucket string

	// PageSize is the number of entries an iterator reads per read
	// transaction.
	// Default: 256
	PageSize int

	// OpenTimeout bounds waiting for the file lock.
	// Default: 1s
	OpenTimeout string
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Engine: EngineBadger,
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
		Bolt:   DefaultBoltConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20, // 64MB
		ValueLogFileSize: 1 << 30,  // 1GB
		NumMemtables:     2,
		SyncWrites:       true,
	}
}

// DefaultBoltConfig returns the default bbolt configuration.
func DefaultBoltConfig() BoltConfig {
	return BoltConfig{
		Bucket:      "ledger",
		PageSize:    256,
		OpenTimeout: "1s",
	}
}

// Open opens the engine selected by cfg.Engine.
func Open(cfg KVConfig, logger *slog.Logger) (Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Engine {
	case "", EngineBadger:
		return NewBadgerEngine(cfg, logger)
	case EngineBolt:
		return NewBoltEngine(cfg, logger)
	case EngineMemory:
		return NewMemoryEngine(logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, cfg.Engine)
	}
}
