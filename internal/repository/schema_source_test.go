package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

func TestEmbeddedSchemaCoversEveryFieldType(t *testing.T) {
	schema, err := EmbeddedSchemaSource{}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "employee-onboarding", schema.ID)

	seen := map[models.FieldType]bool{}
	for _, f := range schema.Fields {
		seen[f.Type] = true
	}
	for _, ft := range models.FieldTypes {
		assert.True(t, seen[ft], "embedded schema has no %s field", ft)
	}
}

const yamlSchema = `id: f1
title: Feedback
description: Short survey
fields:
  - id: "1"
    name: rating
    type: number
    label: Rating
    required: true
    validation:
      min: 1
      max: 5
  - id: "2"
    name: topics
    type: multi-select
    label: Topics
    required: false
    options:
      - label: Speed
        value: speed
`

func TestFileSchemaSourceYAMLMatchesJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlSchema), 0o644))

	fromYAML, err := FileSchemaSource{Path: yamlPath}.Load(context.Background())
	require.NoError(t, err)

	jsonPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "id": "f1", "title": "Feedback", "description": "Short survey",
  "fields": [
    {"id": "1", "name": "rating", "type": "number", "label": "Rating", "required": true,
     "validation": {"min": 1, "max": 5}},
    {"id": "2", "name": "topics", "type": "multi-select", "label": "Topics", "required": false,
     "options": [{"label": "Speed", "value": "speed"}]}
  ]
}`), 0o644))

	fromJSON, err := FileSchemaSource{Path: jsonPath}.Load(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("yaml and json schema differ (-json +yaml):\n%s", diff)
	}
	assert.Equal(t, 5.0, *fromYAML.Fields[0].Validation.Max)
}

func TestFileSchemaSourceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FileSchemaSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": "f1", "colour": "red"}`), 0o644))
	_, err = FileSchemaSource{Path: bad}.Load(context.Background())
	require.ErrorContains(t, err, "parse schema json")
}

func TestNewSchemaSource(t *testing.T) {
	assert.IsType(t, EmbeddedSchemaSource{}, NewSchemaSource(""))
	assert.Equal(t, FileSchemaSource{Path: "/etc/form.yaml"}, NewSchemaSource("/etc/form.yaml"))
}

func TestStaticSchemaSourceReturnsCopies(t *testing.T) {
	src := StaticSchemaSource{Schema: &models.FormSchema{ID: "f1", Title: "T", Fields: []models.FormField{
		{ID: "1", Name: "a", Type: models.FieldText, Label: "A"},
	}}}
	first, err := src.Load(context.Background())
	require.NoError(t, err)
	first.Fields[0].Label = "changed"

	second, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", second.Fields[0].Label)

	_, err = StaticSchemaSource{}.Load(context.Background())
	require.Error(t, err)
}
