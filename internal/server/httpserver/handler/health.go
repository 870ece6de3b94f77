package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/nsremover/internal/infra/buildinfo"
)

// handleHealth handles GET /health. It reports 503 until the namespace
// registry is initialized.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "healthy",
		Initialized: h.registry.Initialized(),
		Namespaces:  h.registry.Len(),
		Time:        time.Now().UTC().Format(time.RFC3339),
		Build:       buildinfo.Get(),
	}

	status := http.StatusOK
	if !resp.Initialized {
		resp.Status = "uninitialized"
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, r, status, resp)
}
