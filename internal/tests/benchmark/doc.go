// Package benchmark measures sweep throughput on every ledger engine.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Compare engines across runs:
//
//	go test -bench=BenchmarkSweep -benchmem -count=5 ./internal/tests/benchmark/... | tee sweep.txt
//	benchstat old.txt sweep.txt
package benchmark
