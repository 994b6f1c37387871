package handler

import "net/http"

type HealthHandler struct {
	stage string
}

func NewHealthHandler(stage string) *HealthHandler {
	return &HealthHandler{stage: stage}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"message":     "Form Builder API is running",
		"environment": h.stage,
	})
}
