package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
	"github.com/yndnr/nsremover/internal/telemetry/metric"
	"github.com/yndnr/nsremover/pkg/compositekey"
)

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperLogger sets the logger used for sweep progress.
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSweeperMetrics records sweep outcomes on reg.
func WithSweeperMetrics(reg *metric.Registry) SweeperOption {
	return func(s *Sweeper) {
		s.metrics = reg
	}
}

// WithClock overrides the time source (tests only).
func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// Sweeper deletes every record under the registered namespaces.
type Sweeper struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metric.Registry
	now      func() time.Time
}

// NewSweeper creates a sweeper over registry.
func NewSweeper(registry *Registry, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		registry: registry,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep scans each registered namespace in order and deletes every record
// with a non-empty value. Records with an empty value are counted as skipped.
//
// The first failure aborts the sweep. Deletes already issued stay committed
// and no partial result is returned.
func (s *Sweeper) Sweep(ctx context.Context, ledger storage.Ledger) (*domain.SweepResult, error) {
	namespaces, err := s.registry.List()
	if err != nil {
		return nil, err
	}

	start := s.now()
	result := domain.NewSweepResult(start)
	log := s.logger.With("sweep_id", result.ID)
	log.Info("sweep started", "namespaces", len(namespaces))

	for _, ns := range namespaces {
		tally, err := s.sweepNamespace(ctx, log, ledger, ns)
		s.observeNamespace(tally)
		if err != nil {
			elapsed := s.now().Sub(start)
			s.observeSweep(metric.ResultFailure, elapsed)
			log.Error("sweep failed",
				"namespace", ns.String(),
				"deleted_before_failure", result.Total()+tally.Deleted,
				"error", err)
			return nil, err
		}
		result.Add(tally)
	}

	result.Duration = s.now().Sub(start)
	s.observeSweep(metric.ResultSuccess, result.Duration)
	log.Info("sweep finished",
		"deleted", result.Total(),
		"skipped", result.TotalSkipped(),
		"duration", result.Duration)
	return result, nil
}

// sweepNamespace drains one prefix scan. The returned tally is meaningful
// even when err is set: it counts the deletes that already committed.
func (s *Sweeper) sweepNamespace(ctx context.Context, log *slog.Logger, ledger storage.Ledger, ns domain.Namespace) (tally domain.NamespaceTally, err error) {
	tally.Namespace = ns

	prefix, err := ns.Prefix()
	if err != nil {
		return tally, err
	}

	it, err := ledger.OpenPrefixScan(ctx, prefix)
	if err != nil {
		return tally, domain.ErrIteratorOpenFailed.WithDetails(ns.String()).WithCause(err)
	}
	defer func() {
		cerr := it.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			err = domain.ErrIteratorCloseFailed.WithDetails(ns.String()).WithCause(cerr)
			return
		}
		log.Warn("iterator close failed after sweep error", "namespace", ns.String(), "error", cerr)
	}()

	for it.Next() {
		if cerr := ctx.Err(); cerr != nil {
			return tally, fmt.Errorf("sweep of namespace %q interrupted: %w", ns, cerr)
		}

		key, value := it.Key(), it.Value()
		if len(value) == 0 {
			tally.Skipped++
			log.Debug("skipping tombstone", "key", compositekey.Printable(key))
			continue
		}

		log.Debug("deleting record",
			"key", compositekey.Printable(key),
			logger.RecordValueKey, value)
		if derr := ledger.Delete(ctx, key); derr != nil {
			return tally, domain.ErrDeleteFailed.
				WithDetails(fmt.Sprintf("%s: %s", ns, compositekey.Printable(key))).
				WithCause(derr)
		}
		tally.Deleted++
	}
	if ierr := it.Err(); ierr != nil {
		return tally, domain.ErrIteratorOpenFailed.WithDetails(ns.String()).WithCause(ierr)
	}

	log.Debug("namespace swept", "namespace", ns.String(), "deleted", tally.Deleted, "skipped", tally.Skipped)
	return tally, nil
}

func (s *Sweeper) observeNamespace(t domain.NamespaceTally) {
	if s.metrics == nil || (t.Deleted == 0 && t.Skipped == 0) {
		return
	}
	s.metrics.ObserveNamespace(t.Namespace.String(), t.Deleted, t.Skipped)
}

func (s *Sweeper) observeSweep(result string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSweep(result, elapsed)
}
