package handler

import (
	"net/http"
	"time"

	"taskify/internal/common"
)

type HealthHandler struct {
	version string
	now     func() time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, now: time.Now}
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Taskify API",
		"version": h.version,
	})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "Taskify API",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}
