package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/storage/memory"
	"github.com/yndnr/nsremover/pkg/compositekey"
)

var errInjected = errors.New("injected failure")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) *storage.MemoryEngine {
	t.Helper()
	l := storage.NewMemoryEngine(discardLogger(), memory.WithPageSize(4))
	t.Cleanup(func() { l.Close() })
	return l
}

// seed writes n scoped records under ns plus n bare records whose raw text
// collides with the scoped sub-keys.
func seed(t *testing.T, l storage.Ledger, ns string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		key, err := domain.Namespace(ns).RecordKey(fmt.Sprint(i))
		if err != nil {
			t.Fatal(err)
		}
		if err := l.Set(ctx, key, []byte("value")); err != nil {
			t.Fatal(err)
		}
		if err := l.Set(ctx, []byte(fmt.Sprintf("%s%d", ns, i)), []byte("bare")); err != nil {
			t.Fatal(err)
		}
	}
}

// countKeys returns the number of composite and bare keys in the ledger.
func countKeys(t *testing.T, l storage.Ledger) (scoped, bare int) {
	t.Helper()
	it, err := l.OpenPrefixScan(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	for it.Next() {
		if compositekey.IsComposite(it.Key()) {
			scoped++
		} else {
			bare++
		}
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	return scoped, bare
}

func newInitializedRegistry(t *testing.T, namespaces ...string) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Initialize(namespaces); err != nil {
		t.Fatal(err)
	}
	return r
}

// faultLedger wraps a ledger and injects failures into the sweep path.
type faultLedger struct {
	storage.Ledger

	failDeleteAt int // 1-based; 0 disables
	openErr      error
	iterErr      error
	closeErr     error

	deletes int
	opened  int
	closed  int
}

func (f *faultLedger) Delete(ctx context.Context, key []byte) error {
	f.deletes++
	if f.failDeleteAt > 0 && f.deletes == f.failDeleteAt {
		return errInjected
	}
	return f.Ledger.Delete(ctx, key)
}

func (f *faultLedger) OpenPrefixScan(ctx context.Context, prefix []byte) (storage.Iterator, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	it, err := f.Ledger.OpenPrefixScan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	f.opened++
	return &trackedIterator{Iterator: it, owner: f}, nil
}

type trackedIterator struct {
	storage.Iterator
	owner *faultLedger
}

func (t *trackedIterator) Err() error {
	if t.owner.iterErr != nil {
		return t.owner.iterErr
	}
	return t.Iterator.Err()
}

func (t *trackedIterator) Close() error {
	t.owner.closed++
	err := t.Iterator.Close()
	if t.owner.closeErr != nil {
		return t.owner.closeErr
	}
	return err
}
