package handler

import (
	"net/http"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubmissionPayload
	if err := readJSON(w, r, &req); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, res)
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := service.ParseListQuery(q.Get("page"), q.Get("limit"), q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), query.Page, query.Limit, query.SortOrder)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}
