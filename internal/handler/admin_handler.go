package handler

import (
	"net/http"

	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

type AdminHandler struct {
	forms *service.FormService
}

func NewAdminHandler(forms *service.FormService) *AdminHandler {
	return &AdminHandler{forms: forms}
}

// InvalidateSchemaCache forces the next schema read to hit the source.
func (h *AdminHandler) InvalidateSchemaCache(w http.ResponseWriter, r *http.Request) {
	h.forms.Invalidate()
	writeJSON(w, http.StatusOK, envelope{Success: true})
}
