// Package domain defines the core domain models for nsremover.
package domain

import (
	"github.com/yndnr/nsremover/pkg/compositekey"
)

// Namespace identifies a logical partition of the ledger keyspace.
type Namespace string

// String implements fmt.Stringer.
func (n Namespace) String() string {
	return string(n)
}

// Validate checks that the namespace is non-empty and encodable as a
// composite key prefix.
func (n Namespace) Validate() error {
	if n == "" {
		return ErrInvalidNamespace.WithDetails("namespace must not be empty")
	}
	if err := compositekey.Validate(string(n)); err != nil {
		return ErrInvalidNamespace.WithDetails(string(n)).WithCause(err)
	}
	return nil
}

// Prefix returns the composite key prefix matching every record of the namespace.
func (n Namespace) Prefix() ([]byte, error) {
	prefix, err := compositekey.PartialKey(string(n))
	if err != nil {
		return nil, ErrInvalidCompositeKey.WithDetails(string(n)).WithCause(err)
	}
	return prefix, nil
}

// RecordKey returns the composite key of a record under the namespace.
func (n Namespace) RecordKey(attributes ...string) ([]byte, error) {
	key, err := compositekey.Create(string(n), attributes...)
	if err != nil {
		return nil, ErrInvalidCompositeKey.WithDetails(string(n)).WithCause(err)
	}
	return key, nil
}

// NamespacesFromStrings converts raw identifiers, preserving order and duplicates.
func NamespacesFromStrings(raw []string) []Namespace {
	out := make([]Namespace, len(raw))
	for i, s := range raw {
		out[i] = Namespace(s)
	}
	return out
}
