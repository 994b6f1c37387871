package handler

import (
	"net/http"

	"github.com/s4sachin/dynamic-form-builder/internal/openapi"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

type OpenAPIHandler struct {
	forms   *service.FormService
	version string
}

func NewOpenAPIHandler(forms *service.FormService, version string) *OpenAPIHandler {
	return &OpenAPIHandler{forms: forms, version: version}
}

// Document serves the OpenAPI description built from the current schema.
func (h *OpenAPIHandler) Document(w http.ResponseWriter, r *http.Request) {
	schema, err := h.forms.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	doc, err := openapi.Build(r.Context(), schema, h.version)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
