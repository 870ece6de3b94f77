package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/core/service"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
)

// Handler serves the invoke and health routes.
type Handler struct {
	dispatcher *service.Dispatcher
	registry   *service.Registry
	logger     *slog.Logger
	mux        *http.ServeMux
}

// New creates a Handler.
func New(dispatcher *service.Dispatcher, registry *service.Registry, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{
		dispatcher: dispatcher,
		registry:   registry,
		logger:     log,
		mux:        http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("POST /v1/invoke/{operation}", h.handleInvoke)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// writeJSON wraps data in a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	resp := NewResponse(requestID(r), data)
	h.writeEnvelope(w, r, status, resp)
}

// writeServiceError wraps err in an error envelope. Domain errors keep their
// code and status; anything else is logged and reported as internal.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, details any) {
	code := domain.GetErrorCode(err)
	if code == "" {
		h.logger.ErrorContext(r.Context(), "internal error", "error", err)
		code = domain.ErrInternal.Code
	}

	w.Header().Set("X-Error-Code", code)
	resp := NewErrorResponse(requestID(r), code, err.Error(), details)
	h.writeEnvelope(w, r, domain.HTTPStatus(err), resp)
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", resp.RequestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WarnContext(r.Context(), "failed to encode response", "error", err)
	}
}

// requestID prefers the ID assigned by the RequestID middleware over the
// client-supplied header.
func requestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}
