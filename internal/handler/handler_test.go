package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     &service.ValidationError{Fields: map[string][]string{"age": {"Expected number"}}},
			status:  http.StatusBadRequest,
			message: "Validation failed",
		},
		{
			name:    "schema",
			err:     fmt.Errorf("%w: boom", service.ErrSchemaUnavailable),
			status:  http.StatusInternalServerError,
			message: "Failed to load form schema",
		},
		{
			name:    "storage",
			err:     fmt.Errorf("%w: disk full", service.ErrStorage),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
		{
			name:    "unknown",
			err:     errors.New("secret detail"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tc.message, env.Error)
			assert.NotContains(t, rec.Body.String(), "secret detail")
		})
	}
}

func TestCreateRejectsOversizedBody(t *testing.T) {
	forms := service.NewFormService(repository.StaticSchemaSource{Schema: &models.FormSchema{
		ID: "f1", Fields: []models.FormField{{ID: "1", Name: "bio", Type: models.FieldTextarea, Label: "Bio"}},
	}})
	h := NewSubmissionHandler(service.NewSubmissionService(forms, repository.NewMemoryStore()))

	body := `{"formId":"f1","data":{"bio":"` + strings.Repeat("x", maxBodyBytes) + `"}}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateRejectsTrailingData(t *testing.T) {
	forms := service.NewFormService(repository.StaticSchemaSource{Schema: &models.FormSchema{ID: "f1"}})
	h := NewSubmissionHandler(service.NewSubmissionService(forms, repository.NewMemoryStore()))

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(`{"formId":"f1","data":{}} {}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec).Error)
}
