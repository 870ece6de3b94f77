package handler

import (
	"time"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/infra/buildinfo"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// InvokeRequest is the optional body of POST /v1/invoke/{operation}.
type InvokeRequest struct {
	Args []string `json:"args,omitempty"`
}

// InvokeResponse is the data of a successful invocation.
type InvokeResponse struct {
	Operation string `json:"operation"`
	Status    int    `json:"status"`
	Payload   string `json:"payload"`

	// Set for DeleteState only.
	RecordsDeleted *int                    `json:"records_deleted,omitempty"`
	RecordsSkipped *int                    `json:"records_skipped,omitempty"`
	SweepID        string                  `json:"sweep_id,omitempty"`
	DurationMS     int64                   `json:"duration_ms,omitempty"`
	Namespaces     []domain.NamespaceTally `json:"namespaces,omitempty"`
}

// InvokeErrorDetails accompanies a failed invocation.
type InvokeErrorDetails struct {
	Operation string `json:"operation"`
	Status    int    `json:"status"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status      string         `json:"status"`
	Initialized bool           `json:"initialized"`
	Namespaces  int            `json:"namespaces"`
	Time        string         `json:"time"`
	Build       buildinfo.Info `json:"build"`
}
