package handler

import (
	"net/http"

	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	schema, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, schema)
}
