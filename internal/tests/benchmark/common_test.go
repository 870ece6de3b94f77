package benchmark

import (
	"context"
	"runtime"
	"strconv"
	"testing"

	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
	"github.com/yndnr/nsremover/pkg/compositekey"
)

// RecordCounts are the per-namespace record counts swept by the benchmarks.
var RecordCounts = []int{1000, 10000, 50000}

// Engines are the ledger engines under benchmark.
var Engines = []string{storage.EngineMemory, storage.EngineBolt, storage.EngineBadger}

// openLedger opens a fresh ledger of the given engine in a temp dir.
func openLedger(b *testing.B, engine string) storage.Ledger {
	b.Helper()

	cfg := storage.DefaultKVConfig(b.TempDir())
	cfg.Engine = engine
	// Durability is not what is being measured.
	cfg.Badger.SyncWrites = false

	ledger, err := storage.Open(cfg, logger.Discard())
	if err != nil {
		b.Fatalf("open %s ledger: %v", engine, err)
	}
	b.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

// seed writes count scoped records under ns and as many bare records.
func seed(b *testing.B, ledger storage.Ledger, ns string, count int) {
	b.Helper()

	ctx := context.Background()
	value := []byte("benchmark-value")
	for i := 0; i < count; i++ {
		attr := strconv.Itoa(i)
		key, err := compositekey.Create(ns, attr)
		if err != nil {
			b.Fatal(err)
		}
		if err := ledger.Set(ctx, key, value); err != nil {
			b.Fatal(err)
		}
		if err := ledger.Set(ctx, []byte(ns+attr), value); err != nil {
			b.Fatal(err)
		}
	}
}

// reportMemory reports heap usage after a GC.
func reportMemory(b *testing.B) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/(1<<20), "heap-MB")
}
