package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthResponse represents the liveness payload
// swagger:model HealthResponse
type HealthResponse struct {
	// default: ok
	Status string `json:"status"`
}

// NewHealthHandler returns a liveness handler. It touches no dependencies:
// it answers 200 even when the database or Firebase are unreachable.
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Service is up"
// @Router /health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}
}
