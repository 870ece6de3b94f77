package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/core/service"
)

// maxInvokeBody bounds the invoke request body.
const maxInvokeBody = 64 << 10

// handleInvoke handles POST /v1/invoke/{operation}.
func (h *Handler) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("operation")

	var req InvokeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInvokeBody))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeServiceError(w, r, domain.ErrInvalidRequest.WithCause(err).WithDetails(err.Error()), nil)
		return
	}

	resp := h.dispatcher.Invoke(r.Context(), name, req.Args)
	if !resp.OK() {
		err := resp.Err
		if err == nil {
			err = domain.ErrInternal.WithDetails(resp.Message)
		}
		h.writeServiceError(w, r, err, InvokeErrorDetails{Operation: name, Status: resp.Status})
		return
	}

	h.writeJSON(w, r, http.StatusOK, newInvokeResponse(name, resp))
}

func newInvokeResponse(name string, resp service.Response) InvokeResponse {
	out := InvokeResponse{
		Operation: name,
		Status:    resp.Status,
		Payload:   string(resp.Payload),
	}
	if res := resp.Result; res != nil {
		deleted, skipped := res.Total(), res.TotalSkipped()
		out.RecordsDeleted = &deleted
		out.RecordsSkipped = &skipped
		out.SweepID = res.ID
		out.DurationMS = res.Duration.Milliseconds()
		out.Namespaces = res.Namespaces
	}
	return out
}
