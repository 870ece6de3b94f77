// Package service provides the domain services of nsremover.
//
// Services hold the deletion logic and define the narrow storage interface
// they need, so any storage.Ledger (or a test double) can be injected.
//
// This package contains:
//
//   - Registry: write-once list of namespaces authorized for deletion
//   - Sweeper: the prefix deletion engine
//   - Dispatcher: routes operation names to Ping and DeleteState
package service
