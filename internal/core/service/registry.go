package service

import (
	"strings"
	"sync"

	"github.com/yndnr/nsremover/internal/core/domain"
)

// Registry holds the ordered namespaces a sweep operates on.
//
// It is populated once by Initialize and immutable afterwards. Duplicates
// are kept; a duplicated namespace is simply scanned again and yields
// nothing the second time.
type Registry struct {
	mu          sync.RWMutex
	namespaces  []domain.Namespace
	initialized bool
}

// NewRegistry creates an empty, uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize stores namespaces verbatim, preserving order.
//
// Returns ErrEmptyNamespaceSet for an empty list, ErrInvalidNamespace if any
// entry cannot be encoded as a key prefix, and ErrAlreadyInitialized on a
// second call.
func (r *Registry) Initialize(raw []string) error {
	if len(raw) == 0 {
		return domain.ErrEmptyNamespaceSet
	}

	namespaces := domain.NamespacesFromStrings(raw)
	for _, ns := range namespaces {
		if err := ns.Validate(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return domain.ErrAlreadyInitialized
	}
	r.namespaces = namespaces
	r.initialized = true
	return nil
}

// List returns a copy of the registered namespaces in registration order.
func (r *Registry) List() ([]domain.Namespace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, domain.ErrNotInitialized
	}
	out := make([]domain.Namespace, len(r.namespaces))
	copy(out, r.namespaces)
	return out, nil
}

// Initialized reports whether Initialize has succeeded.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Len returns the number of registered namespaces (0 before Initialize).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.namespaces)
}

// String joins the namespaces with commas, for logs.
func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parts := make([]string, len(r.namespaces))
	for i, ns := range r.namespaces {
		parts[i] = ns.String()
	}
	return strings.Join(parts, ",")
}
