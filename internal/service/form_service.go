package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
	"github.com/s4sachin/dynamic-form-builder/internal/validation"
)

// FormService serves the form schema. The schema is read from its source
// once and cached until Invalidate is called.
type FormService struct {
	source repository.SchemaSource
	policy *bluemonday.Policy

	mu        sync.Mutex
	schema    *models.FormSchema
	validator *validation.FormValidator
}

func NewFormService(source repository.SchemaSource) *FormService {
	return &FormService{
		source: source,
		policy: bluemonday.StrictPolicy(),
	}
}

// Get returns the cached schema, loading it on first use. The returned
// value is shared and must not be modified.
func (s *FormService) Get(ctx context.Context) (*models.FormSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.schema, nil
}

// Validator returns the submission validator built from the cached schema.
func (s *FormService) Validator(ctx context.Context) (*validation.FormValidator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.validator, nil
}

// Invalidate drops the cached schema; the next Get reloads it.
func (s *FormService) Invalidate() {
	s.mu.Lock()
	s.schema = nil
	s.validator = nil
	s.mu.Unlock()
	slog.Info("form schema cache invalidated")
}

func (s *FormService) loadLocked(ctx context.Context) error {
	if s.schema != nil {
		return nil
	}
	schema, err := s.source.Load(ctx)
	if err != nil {
		slog.Error("load form schema", "error", err)
		return fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	if err := validation.CheckSchema(schema); err != nil {
		slog.Error("invalid form schema", "error", err)
		return fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	s.sanitize(schema)
	v, err := validation.New(schema)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	s.schema = schema
	s.validator = v
	slog.Debug("form schema loaded", "id", schema.ID, "fields", len(schema.Fields))
	return nil
}

// sanitize strips markup from every human-readable string of the schema.
func (s *FormService) sanitize(schema *models.FormSchema) {
	schema.Title = s.clean(schema.Title)
	schema.Description = s.clean(schema.Description)
	for i := range schema.Fields {
		f := &schema.Fields[i]
		f.Label = s.clean(f.Label)
		f.Placeholder = s.clean(f.Placeholder)
		f.Description = s.clean(f.Description)
		for j := range f.Options {
			f.Options[j].Label = s.clean(f.Options[j].Label)
		}
	}
}

func (s *FormService) clean(text string) string {
	if text == "" {
		return ""
	}
	return html.UnescapeString(s.policy.Sanitize(text))
}
