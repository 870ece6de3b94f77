// Package storage provides bbolt-based ledger implementation.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltFileName is the ledger file created inside KVConfig.Dir.
const BoltFileName = "ledger.db"

// BoltEngine implements Ledger on a single bbolt bucket.
type BoltEngine struct {
	db       *bolt.DB
	bucket   []byte
	pageSize int
	logger   *slog.Logger
}

// NewBoltEngine opens (or creates) the ledger file under cfg.Dir.
func NewBoltEngine(cfg KVConfig, logger *slog.Logger) (*BoltEngine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("bbolt: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	boltCfg := cfg.Bolt
	if boltCfg.Bucket == "" {
		boltCfg.Bucket = DefaultBoltConfig().Bucket
	}
	if boltCfg.PageSize <= 0 {
		boltCfg.PageSize = DefaultBoltConfig().PageSize
	}
	timeout, err := time.ParseDuration(boltCfg.OpenTimeout)
	if err != nil || timeout <= 0 {
		timeout = time.Second
	}

	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("bbolt: create dir: %w", err)
	}

	path := filepath.Join(cfg.Dir, BoltFileName)
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("bbolt: open %s: %w", path, err)
	}

	bucket := []byte(boltCfg.Bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt: create bucket %q: %w", bucket, err)
	}

	logger.Info("bbolt engine started",
		"path", path,
		"bucket", boltCfg.Bucket,
		"page_size", boltCfg.PageSize)

	return &BoltEngine{
		db:       db,
		bucket:   bucket,
		pageSize: boltCfg.PageSize,
		logger:   logger,
	}, nil
}

// Get retrieves a value by key.
func (e *BoltEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := e.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(e.bucket).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		// Values are only valid for the life of the transaction.
		value = bytes.Clone(v)
		return nil
	})
	if err != nil {
		return nil, translateBoltErr(err)
	}
	return value, nil
}

// Set stores a key-value pair.
func (e *BoltEngine) Set(ctx context.Context, key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}
	return translateBoltErr(e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(e.bucket).Put(key, value)
	}))
}

// Delete removes a key.
func (e *BoltEngine) Delete(ctx context.Context, key []byte) error {
	return translateBoltErr(e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(e.bucket).Delete(key)
	}))
}

// OpenPrefixScan opens a paging iterator over prefix.
//
// bbolt cannot commit a write while the same goroutine holds a read
// transaction that may need a remap, so the iterator never keeps one open:
// each page is read in its own short View and the next page seeks past the
// last key returned.
func (e *BoltEngine) OpenPrefixScan(ctx context.Context, prefix []byte) (Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	it := &boltIterator{
		engine: e,
		prefix: bytes.Clone(prefix),
	}
	// Read the first page eagerly so a broken ledger fails at open time.
	if err := it.fill(); err != nil {
		return nil, err
	}
	return it, nil
}

// Path returns the ledger file path.
func (e *BoltEngine) Path() string {
	return e.db.Path()
}

// Close closes the ledger file.
func (e *BoltEngine) Close() error {
	e.logger.Info("shutting down bbolt engine")
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func translateBoltErr(err error) error {
	switch {
	case errors.Is(err, bolt.ErrDatabaseNotOpen):
		return ErrClosed
	case errors.Is(err, bolt.ErrKeyRequired):
		return ErrEmptyKey
	default:
		return err
	}
}

type boltEntry struct {
	key   []byte
	value []byte
}

type boltIterator struct {
	engine *BoltEngine
	prefix []byte

	page      []boltEntry
	pos       int
	last      []byte
	exhausted bool
	current   boltEntry
	err       error
	closed    bool
}

func (i *boltIterator) Next() bool {
	if i.closed || i.err != nil {
		return false
	}
	if i.pos >= len(i.page) {
		if i.exhausted {
			return false
		}
		if err := i.fill(); err != nil {
			i.err = err
			return false
		}
		if len(i.page) == 0 {
			return false
		}
	}
	i.current = i.page[i.pos]
	i.pos++
	return true
}

func (i *boltIterator) fill() error {
	i.page = i.page[:0]
	i.pos = 0

	err := i.engine.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(i.engine.bucket).Cursor()

		var k, v []byte
		if i.last == nil {
			k, v = c.Seek(i.prefix)
		} else {
			k, v = c.Seek(i.last)
			if k != nil && bytes.Equal(k, i.last) {
				k, v = c.Next()
			}
		}

		for ; k != nil && bytes.HasPrefix(k, i.prefix); k, v = c.Next() {
			if len(i.page) == i.engine.pageSize {
				return nil
			}
			i.page = append(i.page, boltEntry{key: bytes.Clone(k), value: bytes.Clone(v)})
		}
		i.exhausted = true
		return nil
	})
	if err != nil {
		return translateBoltErr(err)
	}

	if n := len(i.page); n > 0 {
		i.last = i.page[n-1].key
	}
	return nil
}

func (i *boltIterator) Key() []byte   { return i.current.key }
func (i *boltIterator) Value() []byte { return i.current.value }
func (i *boltIterator) Err() error    { return i.err }

func (i *boltIterator) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	i.page = nil
	return nil
}
