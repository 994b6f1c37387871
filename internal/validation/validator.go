package validation

import (
	"errors"
	"fmt"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// FieldErrors maps a field name to every message raised for it.
type FieldErrors map[string][]string

// Add appends msgs under field.
func (e FieldErrors) Add(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	e[field] = append(e[field], msgs...)
}

// Result is the outcome of validating one payload: either Data is set and
// Errors is empty, or Errors lists every rejected field.
type Result struct {
	Data   map[string]any
	Errors FieldErrors
}

// OK reports whether the payload was accepted.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// FormValidator applies the rules of a schema in field order.
type FormValidator struct {
	rules []Rule
}

// New builds a validator for every field of schema.
func New(schema *models.FormSchema) (*FormValidator, error) {
	if schema == nil {
		return nil, errors.New("validation: nil schema")
	}
	rules := make([]Rule, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		r, err := BuildRule(f)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return &FormValidator{rules: rules}, nil
}

// Rules returns the per-field rules in schema order.
func (v *FormValidator) Rules() []Rule {
	return v.rules
}

// Validate checks data against every field. Keys not declared by the schema
// are dropped from the accepted data.
func (v *FormValidator) Validate(data map[string]any) Result {
	out := make(map[string]any, len(v.rules))
	errs := FieldErrors{}
	for _, r := range v.rules {
		name := r.Field().Name
		value, keep, msgs := Apply(r, data[name])
		if len(msgs) > 0 {
			errs.Add(name, msgs...)
			continue
		}
		if keep {
			out[name] = value
		}
	}
	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Data: out}
}

// CheckSchema reports structural problems in a schema document.
func CheckSchema(schema *models.FormSchema) error {
	if schema == nil {
		return errors.New("schema is empty")
	}
	var problems []error
	if schema.ID == "" {
		problems = append(problems, errors.New("schema id is required"))
	}
	seen := make(map[string]bool, len(schema.Fields))
	for i, f := range schema.Fields {
		if f.Name == "" {
			problems = append(problems, fmt.Errorf("field #%d: name is required", i))
			continue
		}
		if seen[f.Name] {
			problems = append(problems, fmt.Errorf("field %q: duplicate name", f.Name))
		}
		seen[f.Name] = true
		if !f.Type.Known() {
			problems = append(problems, fmt.Errorf("field %q: %w: %q", f.Name, ErrUnknownFieldType, f.Type))
			continue
		}
		if f.Type.HasOptions() && len(f.Options) == 0 {
			problems = append(problems, fmt.Errorf("field %q: %s requires options", f.Name, f.Type))
		}
		if !f.Type.HasOptions() && len(f.Options) > 0 {
			problems = append(problems, fmt.Errorf("field %q: %s does not take options", f.Name, f.Type))
		}
		problems = append(problems, checkBounds(f)...)
		if _, err := BuildRule(f); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

func checkBounds(f models.FormField) []error {
	v := f.Rules()
	var problems []error
	nonNegative := func(name string, n *int) {
		if n != nil && *n < 0 {
			problems = append(problems, fmt.Errorf("field %q: %s must be >= 0", f.Name, name))
		}
	}
	nonNegative("minLength", v.MinLength)
	nonNegative("maxLength", v.MaxLength)
	nonNegative("minSelected", v.MinSelected)
	nonNegative("maxSelected", v.MaxSelected)
	if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
		problems = append(problems, fmt.Errorf("field %q: minLength exceeds maxLength", f.Name))
	}
	if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
		problems = append(problems, fmt.Errorf("field %q: min exceeds max", f.Name))
	}
	if v.MinSelected != nil && v.MaxSelected != nil && *v.MaxSelected > 0 && *v.MinSelected > *v.MaxSelected {
		problems = append(problems, fmt.Errorf("field %q: minSelected exceeds maxSelected", f.Name))
	}
	return problems
}
