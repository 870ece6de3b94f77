package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// DomainError is an error carrying a stable code of the form
// NSR-<AREA>-<NNNN>. The first three digits of NNNN are the HTTP status the
// error maps to.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

// NewDomainError creates a DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches any *DomainError with the same code, so errors.Is works against
// the package-level values regardless of details or cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// WithDetails returns a copy with details set.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// Wrap is WithCause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// HTTPStatus derives the HTTP status from the code suffix, e.g. NSR-OP-4040
// is 404. Malformed codes map to 500.
func (e *DomainError) HTTPStatus() int {
	if len(e.Code) < 4 {
		return 500
	}
	n, err := strconv.Atoi(e.Code[len(e.Code)-4:])
	if err != nil || n < 4000 || n >= 6000 {
		return 500
	}
	return n / 10
}

// IsDomainError reports whether err wraps a DomainError with code. An empty
// code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// GetErrorCode returns the code of the DomainError wrapped by err, or "".
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HTTPStatus returns the status for err: the DomainError's status, or 500.
func HTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		return de.HTTPStatus()
	}
	return 500
}

var (
	// Registry initialization.
	ErrEmptyNamespaceSet  = NewDomainError("NSR-INIT-4000", "no namespaces provided to the Init() method")
	ErrInvalidNamespace   = NewDomainError("NSR-INIT-4001", "invalid namespace")
	ErrAlreadyInitialized = NewDomainError("NSR-INIT-4090", "namespace registry already initialized")
	ErrNotInitialized     = NewDomainError("NSR-INIT-4091", "namespace registry not initialized")

	// Dispatch.
	ErrUnknownOperation = NewDomainError("NSR-OP-4040", "could not find function named")

	// Ledger access during a sweep. IteratorOpenFailed also covers a scan
	// that fails part way through.
	ErrIteratorOpenFailed  = NewDomainError("NSR-STOR-5001", "prefix scan failed")
	ErrDeleteFailed        = NewDomainError("NSR-STOR-5002", "delete failed")
	ErrIteratorCloseFailed = NewDomainError("NSR-STOR-5003", "prefix scan close failed")

	ErrInvalidCompositeKey = NewDomainError("NSR-KEY-4000", "invalid composite key")

	ErrInvalidRequest = NewDomainError("NSR-ARG-4000", "invalid request")
	ErrRateLimited    = NewDomainError("NSR-SYS-4290", "too many requests")
	ErrInternal       = NewDomainError("NSR-SYS-5000", "internal error")
)
