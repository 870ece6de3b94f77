// Package storage provides the ledger storage collaborators for nsremover.
//
// The deletion engine only depends on the Ledger contract defined in
// ledger.go. Three engines implement it:
//
//   - badger: LSM engine (github.com/dgraph-io/badger/v3); iterators hold a
//     read-only transaction and see a stable snapshot
//   - bbolt: B+tree file (go.etcd.io/bbolt); iterators page through short
//     read transactions so deletes never wait on an open reader
//   - memory: btree kept in process memory (tests and drills)
//
// Every Set and Delete commits on its own. Atomicity across records is the
// business of whoever wraps the ledger.
package storage
