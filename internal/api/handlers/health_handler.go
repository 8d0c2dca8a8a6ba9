package handlers

import (
	"net/http"

	"github.com/Devyalamaddi/CareConnect/internal/application/services"
)

// HealthHandler reports worker liveness and partition population
type HealthHandler struct {
	partitions *services.PartitionManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(partitions *services.PartitionManager) *HealthHandler {
	return &HealthHandler{partitions: partitions}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.partitions.Status(r.Context())
	if err != nil {
		// Storage being down degrades caching, not the worker itself
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "degraded",
			"storage": "unavailable",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"partitions": status,
	})
}
