package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	base := NewDomainError("NSR-TEST-4000", "bad thing")

	if got := base.Error(); got != "[NSR-TEST-4000] bad thing" {
		t.Errorf("Error() = %q", got)
	}
	if got := base.WithDetails("orders").Error(); got != "[NSR-TEST-4000] bad thing: orders" {
		t.Errorf("Error() with details = %q", got)
	}
	if got := ErrUnknownOperation.WithDetails("Nonexistent").Error(); got != "[NSR-OP-4040] could not find function named: Nonexistent" {
		t.Errorf("unknown operation = %q", got)
	}
}

func TestDomainError_CopiesLeaveOriginalUntouched(t *testing.T) {
	cause := errors.New("disk gone")

	derived := ErrDeleteFailed.WithDetails("k").Wrap(cause)

	if ErrDeleteFailed.Details != "" || ErrDeleteFailed.Cause != nil {
		t.Fatalf("package-level error mutated: %+v", ErrDeleteFailed)
	}
	if derived.Details != "k" || derived.Cause != cause {
		t.Errorf("derived = %+v", derived)
	}
	if derived.Code != ErrDeleteFailed.Code || derived.Message != ErrDeleteFailed.Message {
		t.Errorf("code/message not preserved: %+v", derived)
	}
}

func TestDomainError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("iterator broke")
	err := fmt.Errorf("sweep: %w", ErrIteratorOpenFailed.WithCause(cause))

	tests := []struct {
		name   string
		target error
		want   bool
	}{
		{"same code", ErrIteratorOpenFailed, true},
		{"same code different message", NewDomainError("NSR-STOR-5001", "other"), true},
		{"different code", ErrDeleteFailed, false},
		{"cause", cause, true},
		{"unrelated", errors.New("iterator broke"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}

	if errors.Unwrap(ErrInternal) != nil {
		t.Error("Unwrap() without cause should be nil")
	}
}

func TestIsDomainErrorAndGetErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", ErrNotInitialized)

	tests := []struct {
		name     string
		err      error
		code     string
		wantIs   bool
		wantCode string
	}{
		{"exact", ErrNotInitialized, "NSR-INIT-4091", true, "NSR-INIT-4091"},
		{"wrapped", wrapped, "NSR-INIT-4091", true, "NSR-INIT-4091"},
		{"any code", wrapped, "", true, "NSR-INIT-4091"},
		{"other code", wrapped, "NSR-INIT-4000", false, "NSR-INIT-4091"},
		{"plain error", errors.New("x"), "", false, ""},
		{"nil", nil, "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomainError(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.wantIs)
			}
			if got := GetErrorCode(tt.err); got != tt.wantCode {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err    *DomainError
		code   string
		status int
	}{
		{ErrEmptyNamespaceSet, "NSR-INIT-4000", 400},
		{ErrInvalidNamespace, "NSR-INIT-4001", 400},
		{ErrAlreadyInitialized, "NSR-INIT-4090", 409},
		{ErrNotInitialized, "NSR-INIT-4091", 409},
		{ErrUnknownOperation, "NSR-OP-4040", 404},
		{ErrIteratorOpenFailed, "NSR-STOR-5001", 500},
		{ErrDeleteFailed, "NSR-STOR-5002", 500},
		{ErrIteratorCloseFailed, "NSR-STOR-5003", 500},
		{ErrInvalidCompositeKey, "NSR-KEY-4000", 400},
		{ErrInvalidRequest, "NSR-ARG-4000", 400},
		{ErrRateLimited, "NSR-SYS-4290", 429},
		{ErrInternal, "NSR-SYS-5000", 500},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("empty Message")
			}
			if got := tt.err.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
			if seen[tt.code] {
				t.Errorf("duplicate code %s", tt.code)
			}
			seen[tt.code] = true
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped domain error", fmt.Errorf("x: %w", ErrUnknownOperation), 404},
		{"plain error", errors.New("x"), 500},
		{"malformed code", NewDomainError("BAD", "x"), 500},
		{"non-numeric suffix", NewDomainError("NSR-X-40AB", "x"), 500},
		{"out of range", NewDomainError("NSR-X-2000", "x"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
