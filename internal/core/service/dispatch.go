package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/telemetry/metric"
)

// Status codes carried in a Response.
const (
	StatusOK    = 200
	StatusError = 500
)

// Operation identifies an invocable operation.
type Operation int

const (
	OperationUnknown Operation = iota
	OperationPing
	OperationDeleteState
)

var operationNames = map[string]Operation{
	"Ping":        OperationPing,
	"DeleteState": OperationDeleteState,
}

// ParseOperation maps an operation name to its Operation.
// Names are case-sensitive.
func ParseOperation(name string) Operation {
	if op, ok := operationNames[name]; ok {
		return op
	}
	return OperationUnknown
}

func (o Operation) String() string {
	switch o {
	case OperationPing:
		return "Ping"
	case OperationDeleteState:
		return "DeleteState"
	default:
		return "Unknown"
	}
}

// Response is the outcome of Init or Invoke.
type Response struct {
	Status  int
	Message string
	Payload []byte

	// Result is set for a successful DeleteState.
	Result *domain.SweepResult

	// Err is the underlying error of a failed response.
	Err error
}

// OK reports whether the response carries StatusOK.
func (r Response) OK() bool {
	return r.Status == StatusOK
}

func success(payload string) Response {
	return Response{Status: StatusOK, Payload: []byte(payload)}
}

func failure(err error) Response {
	return Response{Status: StatusError, Message: err.Error(), Err: err}
}

type handlerFunc func(ctx context.Context, args []string) Response

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDispatcherMetrics counts invocations on reg.
func WithDispatcherMetrics(reg *metric.Registry) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = reg
	}
}

// Dispatcher routes operation names to their handlers.
//
// DeleteState invocations are serialized; Ping never waits on a sweep.
type Dispatcher struct {
	registry *Registry
	sweeper  *Sweeper
	ledger   storage.Ledger
	logger   *slog.Logger
	metrics  *metric.Registry

	sweepMu  sync.Mutex
	handlers map[Operation]handlerFunc
}

// NewDispatcher creates a dispatcher that sweeps ledger.
func NewDispatcher(registry *Registry, sweeper *Sweeper, ledger storage.Ledger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		sweeper:  sweeper,
		ledger:   ledger,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = map[Operation]handlerFunc{
		OperationPing:        d.ping,
		OperationDeleteState: d.deleteState,
	}
	return d
}

// Init registers the namespaces to sweep. It must succeed before any
// DeleteState invocation.
func (d *Dispatcher) Init(args []string) Response {
	if err := d.registry.Initialize(args); err != nil {
		d.logger.Error("initialization failed", "error", err)
		return failure(err)
	}
	d.logger.Info("namespaces registered", "namespaces", d.registry.String())
	return success("nsremover initialized successfully")
}

// Invoke runs the operation called name.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args []string) Response {
	op := ParseOperation(name)

	var resp Response
	if h, ok := d.handlers[op]; ok {
		resp = h(ctx, args)
	} else {
		resp = failure(domain.ErrUnknownOperation.WithDetails(name))
		d.logger.Warn("unknown operation", "operation", name)
	}

	if d.metrics != nil {
		d.metrics.ObserveInvocation(op.String(), resp.Status)
	}
	return resp
}

func (d *Dispatcher) ping(_ context.Context, _ []string) Response {
	return success("Ping successful.")
}

func (d *Dispatcher) deleteState(ctx context.Context, _ []string) Response {
	d.sweepMu.Lock()
	defer d.sweepMu.Unlock()

	result, err := d.sweeper.Sweep(ctx, d.ledger)
	if err != nil {
		resp := failure(err)
		var de *domain.DomainError
		if !errors.As(err, &de) {
			resp.Err = domain.ErrInternal.Wrap(err)
		}
		return resp
	}

	resp := success(strconv.Itoa(result.Total()))
	resp.Result = result
	return resp
}
