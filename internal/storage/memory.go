// Package storage provides the ledger storage collaborators for nsremover.
package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yndnr/nsremover/internal/storage/memory"
)

// MemoryEngine adapts memory.Ledger to the Ledger contract.
type MemoryEngine struct {
	ledger *memory.Ledger
	logger *slog.Logger
}

// NewMemoryEngine creates an empty in-memory ledger.
func NewMemoryEngine(logger *slog.Logger, opts ...memory.Option) *MemoryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("serving from an in-memory ledger, data will be lost on shutdown")

	return &MemoryEngine{
		ledger: memory.New(opts...),
		logger: logger,
	}
}

// Get retrieves a value by key.
func (e *MemoryEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	value, err := e.ledger.Get(ctx, key)
	if errors.Is(err, memory.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	return value, translateMemoryErr(err)
}

// Set stores a key-value pair.
func (e *MemoryEngine) Set(ctx context.Context, key, value []byte) error {
	return translateMemoryErr(e.ledger.Set(ctx, key, value))
}

// Delete removes a key.
func (e *MemoryEngine) Delete(ctx context.Context, key []byte) error {
	return translateMemoryErr(e.ledger.Delete(ctx, key))
}

// OpenPrefixScan opens an iterator over a snapshot of the prefix.
func (e *MemoryEngine) OpenPrefixScan(ctx context.Context, prefix []byte) (Iterator, error) {
	it, err := e.ledger.Scan(ctx, prefix)
	if err != nil {
		return nil, translateMemoryErr(err)
	}
	return it, nil
}

// Len returns the number of stored records.
func (e *MemoryEngine) Len() int {
	return e.ledger.Len()
}

// Close drops all records.
func (e *MemoryEngine) Close() error {
	return e.ledger.Close()
}

func translateMemoryErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, memory.ErrClosed):
		return ErrClosed
	case errors.Is(err, memory.ErrEmptyKey):
		return ErrEmptyKey
	default:
		return err
	}
}
