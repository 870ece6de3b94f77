// Package memory provides an in-memory ledger for nsremover.
package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/google/btree"
)

const (
	// DefaultDegree is the btree degree used by New.
	DefaultDegree = 32

	// DefaultPageSize is the number of entries an iterator copies per refill.
	DefaultPageSize = 128
)

// Errors returned by the in-memory ledger.
var (
	ErrKeyNotFound = errors.New("memory: key not found")
	ErrEmptyKey    = errors.New("memory: key must not be empty")
	ErrClosed      = errors.New("memory: ledger closed")
)

type entry struct {
	key   []byte
	value []byte
}

func lessEntry(a, b entry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Ledger keeps records in a copy-on-write btree ordered by key bytes.
type Ledger struct {
	mu       sync.RWMutex
	tree     *btree.BTreeG[entry]
	pageSize int
	closed   bool
}

// Option configures the Ledger.
type Option func(*Ledger)

// WithPageSize sets how many entries an iterator copies per refill.
func WithPageSize(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// New creates an empty in-memory ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		tree:     btree.NewG[entry](DefaultDegree, lessEntry),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get retrieves a copy of the value stored under key.
func (l *Ledger) Get(_ context.Context, key []byte) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, ErrClosed
	}
	e, ok := l.tree.Get(entry{key: key})
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(e.value), nil
}

// Set stores copies of key and value.
func (l *Ledger) Set(_ context.Context, key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	v := bytes.Clone(value)
	if v == nil {
		v = []byte{}
	}
	l.tree.ReplaceOrInsert(entry{key: bytes.Clone(key), value: v})
	return nil
}

// Delete removes key. Missing keys are ignored.
func (l *Ledger) Delete(_ context.Context, key []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.tree.Delete(entry{key: key})
	return nil
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// Scan opens an iterator over a snapshot of the keys starting with prefix.
// Writes made after Scan returns are not visible to the iterator.
func (l *Ledger) Scan(ctx context.Context, prefix []byte) (*Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}

	// Clone is lazy copy-on-write, so later writes to l.tree leave the
	// snapshot untouched.
	return &Iterator{
		snapshot: l.tree.Clone(),
		prefix:   bytes.Clone(prefix),
		pageSize: l.pageSize,
	}, nil
}

// Close drops all records.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.tree.Clear(false)
	return nil
}

// Iterator walks a btree snapshot in key order, one page at a time.
type Iterator struct {
	snapshot *btree.BTreeG[entry]
	prefix   []byte
	pageSize int

	page      []entry
	pos       int
	last      []byte
	exhausted bool
	current   entry
	closed    bool
}

// Next advances to the next entry.
func (it *Iterator) Next() bool {
	if it.closed {
		return false
	}
	if it.pos >= len(it.page) {
		if it.exhausted {
			return false
		}
		it.fill()
		if len(it.page) == 0 {
			return false
		}
	}
	it.current = it.page[it.pos]
	it.pos++
	return true
}

func (it *Iterator) fill() {
	it.page = it.page[:0]
	it.pos = 0

	pivot := entry{key: it.prefix}
	if it.last != nil {
		pivot = entry{key: it.last}
	}

	it.snapshot.AscendGreaterOrEqual(pivot, func(e entry) bool {
		if !bytes.HasPrefix(e.key, it.prefix) {
			it.exhausted = true
			return false
		}
		if it.last != nil && bytes.Equal(e.key, it.last) {
			return true
		}
		it.page = append(it.page, entry{key: bytes.Clone(e.key), value: bytes.Clone(e.value)})
		return len(it.page) < it.pageSize
	})

	if len(it.page) < it.pageSize {
		it.exhausted = true
	}
	if n := len(it.page); n > 0 {
		it.last = it.page[n-1].key
	}
}

// Key returns the current key.
func (it *Iterator) Key() []byte {
	return it.current.key
}

// Value returns the current value.
func (it *Iterator) Value() []byte {
	return it.current.value
}

// Err always returns nil; snapshot iteration cannot fail.
func (it *Iterator) Err() error {
	return nil
}

// Close releases the snapshot. It is safe to call more than once.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.snapshot = nil
	it.page = nil
	return nil
}
