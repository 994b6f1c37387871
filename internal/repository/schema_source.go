package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

//go:embed data/formSchema.json
var defaultSchema []byte

// SchemaSource produces the form schema document. Implementations read
// their backing data on every call; caching belongs to the caller.
type SchemaSource interface {
	Load(ctx context.Context) (*models.FormSchema, error)
}

// NewSchemaSource returns the file source for path, or the embedded
// default document when path is empty.
func NewSchemaSource(path string) SchemaSource {
	if strings.TrimSpace(path) == "" {
		return EmbeddedSchemaSource{}
	}
	return FileSchemaSource{Path: path}
}

// EmbeddedSchemaSource serves the schema compiled into the binary.
type EmbeddedSchemaSource struct{}

func (EmbeddedSchemaSource) Load(_ context.Context) (*models.FormSchema, error) {
	return decodeSchemaJSON(defaultSchema)
}

// FileSchemaSource reads a schema document from disk. Files ending in
// .yaml or .yml are parsed as YAML, anything else as JSON.
type FileSchemaSource struct {
	Path string
}

func (s FileSchemaSource) Load(ctx context.Context) (*models.FormSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return decodeSchemaYAML(data)
	default:
		return decodeSchemaJSON(data)
	}
}

func decodeSchemaJSON(data []byte) (*models.FormSchema, error) {
	var schema models.FormSchema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parse schema json: %w", err)
	}
	return &schema, nil
}

func decodeSchemaYAML(data []byte) (*models.FormSchema, error) {
	var schema models.FormSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parse schema yaml: %w", err)
	}
	return &schema, nil
}

// StaticSchemaSource serves a schema held in memory. Each Load returns an
// independent copy.
type StaticSchemaSource struct {
	Schema *models.FormSchema
}

func (s StaticSchemaSource) Load(_ context.Context) (*models.FormSchema, error) {
	if s.Schema == nil {
		return nil, errors.New("static schema source is empty")
	}
	raw, err := json.Marshal(s.Schema)
	if err != nil {
		return nil, fmt.Errorf("copy schema: %w", err)
	}
	return decodeSchemaJSON(raw)
}
