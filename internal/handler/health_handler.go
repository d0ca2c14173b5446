package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aasthafoundation/careboard/internal/service"
)

type HealthHandler struct {
	backend service.Backend
}

func NewHealthHandler(backend service.Backend) *HealthHandler {
	return &HealthHandler{backend: backend}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.backend.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "degraded",
			"backend": h.backend.Name(),
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": h.backend.Name()})
}
