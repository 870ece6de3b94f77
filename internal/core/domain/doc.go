// Package domain defines the core domain models for nsremover.
//
// Domain models are plain values without IO dependencies:
//
//   - Namespace: a logical partition of the ledger keyspace
//   - SweepResult: the deletion tally of one sweep
//   - Errors: coded domain errors shared by every layer
package domain
