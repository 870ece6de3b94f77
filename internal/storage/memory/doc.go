// Package memory provides an in-memory ledger for nsremover.
//
// Records live in a github.com/google/btree ordered by raw key bytes, so
// prefix scans see keys in the same lexicographic order as the on-disk
// engines.
//
// Thread Safety:
//
// All operations are guarded by a single RWMutex. Scan takes a
// copy-on-write clone of the tree, so an open iterator is unaffected by
// later writes, including deletes issued while it is being consumed.
package memory
