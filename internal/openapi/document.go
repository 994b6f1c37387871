// Package openapi describes the HTTP API as an OpenAPI 3 document. The
// submission payload schema is derived from the active form schema.
package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// Build returns a validated document for schema.
func Build(ctx context.Context, schema *models.FormSchema, version string) (*openapi3.T, error) {
	if schema == nil {
		return nil, errors.New("openapi: nil form schema")
	}
	if version == "" {
		version = "dev"
	}

	paths := openapi3.NewPaths()
	paths.Set("/api/health", &openapi3.PathItem{Get: healthOperation()})
	paths.Set("/api/form-schema", &openapi3.PathItem{Get: formSchemaOperation()})
	paths.Set("/api/submissions", &openapi3.PathItem{
		Get:  listSubmissionsOperation(),
		Post: createSubmissionOperation(schema),
	})

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       schema.Title + " API",
			Description: schema.Description,
			Version:     version,
		},
		Paths: paths,
	}
	if err := doc.Validate(ctx, openapi3.DisableSchemaDefaultsValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// DataSchema maps every form field to a JSON schema property.
func DataSchema(schema *models.FormSchema) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Properties = openapi3.Schemas{}
	for _, f := range schema.Fields {
		obj.Properties[f.Name] = openapi3.NewSchemaRef("", FieldSchema(f))
		if f.Required {
			obj.Required = append(obj.Required, f.Name)
		}
	}
	return obj
}

// FieldSchema translates one field's type and constraints.
func FieldSchema(f models.FormField) *openapi3.Schema {
	rules := f.Rules()
	var s *openapi3.Schema
	switch f.Type {
	case models.FieldText, models.FieldTextarea:
		s = openapi3.NewStringSchema()
		if rules.MinLength != nil {
			s.MinLength = uint64(*rules.MinLength)
		}
		if rules.MaxLength != nil {
			n := uint64(*rules.MaxLength)
			s.MaxLength = &n
		}
		s.Pattern = rules.Regex
	case models.FieldNumber:
		s = openapi3.NewFloat64Schema()
		s.Min = rules.Min
		s.Max = rules.Max
	case models.FieldSelect:
		s = openapi3.NewStringSchema()
		s.MinLength = 1
		s.Enum = optionValues(f.Options)
	case models.FieldMultiSelect:
		item := openapi3.NewStringSchema()
		item.Enum = optionValues(f.Options)
		s = openapi3.NewArraySchema()
		s.Items = openapi3.NewSchemaRef("", item)
		s.MinItems = 1
		if rules.MinSelected != nil && *rules.MinSelected > 1 {
			s.MinItems = uint64(*rules.MinSelected)
		}
		if rules.MaxSelected != nil && *rules.MaxSelected > 0 {
			n := uint64(*rules.MaxSelected)
			s.MaxItems = &n
		}
	case models.FieldDate:
		s = openapi3.NewStringSchema()
		s.Format = "date"
	case models.FieldSwitch:
		s = openapi3.NewBoolSchema()
	default:
		s = openapi3.NewSchema()
	}
	s.Title = f.Label
	s.Description = f.Description
	return s
}

func optionValues(opts []models.FieldOption) []any {
	if len(opts) == 0 {
		return nil
	}
	out := make([]any, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func healthOperation() *openapi3.Operation {
	body := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("environment", openapi3.NewStringSchema())
	return &openapi3.Operation{
		OperationID: "health",
		Summary:     "Service liveness",
		Responses:   responses(map[string]*openapi3.Response{"200": jsonResponse("Service is up", body)}),
	}
}

func formSchemaOperation() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "getFormSchema",
		Summary:     "Return the form schema",
		Responses: responses(map[string]*openapi3.Response{
			"200": jsonResponse("Form schema", envelope(openapi3.NewObjectSchema())),
			"500": jsonResponse("Schema could not be loaded", errorEnvelope()),
		}),
	}
}

func createSubmissionOperation(schema *models.FormSchema) *openapi3.Operation {
	payload := openapi3.NewObjectSchema().
		WithProperty("formId", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("data", DataSchema(schema))
	payload.Required = []string{"formId", "data"}

	created := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("createdAt", openapi3.NewDateTimeSchema())

	return &openapi3.Operation{
		OperationID: "createSubmission",
		Summary:     "Validate and store a submission",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(payload),
		},
		Responses: responses(map[string]*openapi3.Response{
			"201": jsonResponse("Submission stored", envelope(created)),
			"400": jsonResponse("Validation failed", errorEnvelope()),
			"429": jsonResponse("Too many requests", errorEnvelope()),
			"500": jsonResponse("Internal server error", errorEnvelope()),
		}),
	}
}

func listSubmissionsOperation() *openapi3.Operation {
	page := openapi3.NewIntegerSchema().WithMin(1)
	page.Default = 1
	limit := openapi3.NewIntegerSchema().WithMin(1).WithMax(100)
	limit.Default = 10
	sortBy := openapi3.NewStringSchema().WithEnum("createdAt")
	sortOrder := openapi3.NewStringSchema().WithEnum("asc", "desc")
	sortOrder.Default = "desc"

	submission := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("formId", openapi3.NewStringSchema()).
		WithProperty("data", openapi3.NewObjectSchema()).
		WithProperty("createdAt", openapi3.NewDateTimeSchema()).
		WithProperty("updatedAt", openapi3.NewDateTimeSchema())
	pagination := openapi3.NewObjectSchema().
		WithProperty("page", openapi3.NewIntegerSchema()).
		WithProperty("limit", openapi3.NewIntegerSchema()).
		WithProperty("total", openapi3.NewIntegerSchema()).
		WithProperty("totalPages", openapi3.NewIntegerSchema()).
		WithProperty("hasNextPage", openapi3.NewBoolSchema()).
		WithProperty("hasPreviousPage", openapi3.NewBoolSchema())
	body := openapi3.NewObjectSchema().
		WithProperty("submissions", openapi3.NewArraySchema().WithItems(submission)).
		WithProperty("pagination", pagination)

	return &openapi3.Operation{
		OperationID: "listSubmissions",
		Summary:     "Page through stored submissions",
		Parameters: openapi3.Parameters{
			{Value: openapi3.NewQueryParameter("page").WithSchema(page)},
			{Value: openapi3.NewQueryParameter("limit").WithSchema(limit)},
			{Value: openapi3.NewQueryParameter("sortBy").WithSchema(sortBy)},
			{Value: openapi3.NewQueryParameter("sortOrder").WithSchema(sortOrder)},
		},
		Responses: responses(map[string]*openapi3.Response{
			"200": jsonResponse("One page of submissions", envelope(body)),
			"400": jsonResponse("Invalid query", errorEnvelope()),
		}),
	}
}

func responses(byStatus map[string]*openapi3.Response) *openapi3.Responses {
	out := &openapi3.Responses{}
	for status, r := range byStatus {
		out.Set(status, &openapi3.ResponseRef{Value: r})
	}
	return out
}

func jsonResponse(desc string, schema *openapi3.Schema) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(desc).WithJSONSchema(schema)
}

func envelope(data *openapi3.Schema) *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("data", data)
	s.Required = []string{"success"}
	return s
}

func errorEnvelope() *openapi3.Schema {
	fieldErrors := openapi3.NewObjectSchema().
		WithAdditionalProperties(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	s := openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("errors", fieldErrors)
	s.Required = []string{"success", "error"}
	return s
}
