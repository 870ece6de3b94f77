// Package domain defines the core domain models for nsremover.
package domain

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// SweepIDPrefix is the prefix of every sweep identifier.
const SweepIDPrefix = "swp_"

// NamespaceTally counts what a sweep did inside one namespace.
type NamespaceTally struct {
	Namespace Namespace `json:"namespace" yaml:"namespace"`
	Deleted   int       `json:"deleted" yaml:"deleted"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
}

// SweepResult is the deletion tally of one sweep. It lives only as long as
// the invocation that produced it.
type SweepResult struct {
	ID         string           `json:"id" yaml:"id"`
	StartedAt  time.Time        `json:"started_at" yaml:"started_at"`
	Duration   time.Duration    `json:"duration" yaml:"duration"`
	Namespaces []NamespaceTally `json:"namespaces" yaml:"namespaces"`
}

// NewSweepResult starts an empty tally with a fresh sweep ID.
func NewSweepResult(now time.Time) *SweepResult {
	return &SweepResult{
		ID:        NewSweepID(now),
		StartedAt: now,
	}
}

// NewSweepID generates a sortable sweep identifier (swp_ + ULID).
func NewSweepID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return SweepIDPrefix + "unknown"
	}
	return SweepIDPrefix + id.String()
}

// Add folds a namespace tally into the result.
func (r *SweepResult) Add(t NamespaceTally) {
	r.Namespaces = append(r.Namespaces, t)
}

// Total returns the number of records deleted across all namespaces.
func (r *SweepResult) Total() int {
	total := 0
	for _, t := range r.Namespaces {
		total += t.Deleted
	}
	return total
}

// TotalSkipped returns the number of empty values left in place.
func (r *SweepResult) TotalSkipped() int {
	total := 0
	for _, t := range r.Namespaces {
		total += t.Skipped
	}
	return total
}
